package readiness

import (
	"context"
	"time"

	"k8s.io/client-go/kubernetes"
)

// WaitForAPIServerStable polls the API server until it answers
// requiredSuccesses consecutive ServerVersion requests. Directly after
// bootstrap the API server may answer once and then reset connections while
// static pods restart, so a single success is not trustworthy.
func WaitForAPIServerStable(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
	requiredSuccesses int,
) error {
	return PollForReadiness(ctx, deadline, apiServerStableProbe(clientset, requiredSuccesses))
}

// --- internals ---

func apiServerStableProbe(clientset kubernetes.Interface, requiredSuccesses int) Probe {
	if requiredSuccesses < 1 {
		requiredSuccesses = 1
	}

	consecutive := 0

	return func(context.Context) (bool, error) {
		_, err := clientset.Discovery().ServerVersion()
		if err != nil {
			consecutive = 0

			return false, nil //nolint:nilerr // reset the streak and continue polling
		}

		consecutive++

		return consecutive >= requiredSuccesses, nil
	}
}

package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
)

// Resource kinds supported by Check.
const (
	KindDeployment  = "deployment"
	KindStatefulSet = "statefulset"
	KindDaemonSet   = "daemonset"
)

// ErrUnsupportedCheckKind is returned when a Check names a kind this package
// has no waiter for.
var ErrUnsupportedCheckKind = errors.New("unsupported readiness check kind")

// Check identifies a single workload to wait for.
type Check struct {
	Kind      string
	Namespace string
	Name      string
}

// WaitForResources waits for every check to pass in order. The deadline
// applies per resource, matching how helm's own --wait budgets time.
func WaitForResources(
	ctx context.Context,
	clientset kubernetes.Interface,
	checks []Check,
	deadline time.Duration,
) error {
	for _, check := range checks {
		var err error

		switch check.Kind {
		case KindDeployment:
			err = WaitForDeploymentAvailable(ctx, clientset, check.Namespace, check.Name, deadline)
		case KindStatefulSet:
			err = WaitForStatefulSetReady(ctx, clientset, check.Namespace, check.Name, deadline)
		case KindDaemonSet:
			err = WaitForDaemonSetReady(ctx, clientset, check.Namespace, check.Name, deadline)
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedCheckKind, check.Kind)
		}

		if err != nil {
			return fmt.Errorf("%s %s/%s not ready: %w", check.Kind, check.Namespace, check.Name, err)
		}
	}

	return nil
}

package readiness

import (
	"context"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForLoadBalancerIP polls until the named Service has a LoadBalancer
// ingress address assigned and returns it. MetalLB assigns the address
// asynchronously after the Service is created.
func WaitForLoadBalancerIP(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	deadline time.Duration,
) (string, error) {
	var assigned string

	err := PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		service, err := clientset.CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // not created yet, continue polling
		}

		for _, ingress := range service.Status.LoadBalancer.Ingress {
			if ingress.IP != "" {
				assigned = ingress.IP

				return true, nil
			}

			if ingress.Hostname != "" {
				assigned = ingress.Hostname

				return true, nil
			}
		}

		return false, nil
	})
	if err != nil {
		return "", err
	}

	return assigned, nil
}

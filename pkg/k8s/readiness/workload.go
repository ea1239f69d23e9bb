package readiness

import (
	"context"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForDeploymentAvailable polls until the named Deployment has as many
// available replicas as desired.
func WaitForDeploymentAvailable(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		deployment, err := clientset.AppsV1().
			Deployments(namespace).
			Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // not created yet, continue polling
		}

		desired := int32(1)
		if deployment.Spec.Replicas != nil {
			desired = *deployment.Spec.Replicas
		}

		return deployment.Status.AvailableReplicas >= desired, nil
	})
}

// WaitForDaemonSetReady polls until the named DaemonSet reports a ready pod
// on every scheduled node.
func WaitForDaemonSetReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		daemonSet, err := clientset.AppsV1().
			DaemonSets(namespace).
			Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // not created yet, continue polling
		}

		desired := daemonSet.Status.DesiredNumberScheduled

		return desired > 0 && daemonSet.Status.NumberReady >= desired, nil
	})
}

// WaitForStatefulSetReady polls until the named StatefulSet has as many
// ready replicas as desired. Database components (postgres, redis, rabbitmq)
// deploy as StatefulSets.
func WaitForStatefulSetReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		statefulSet, err := clientset.AppsV1().
			StatefulSets(namespace).
			Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // not created yet, continue polling
		}

		desired := int32(1)
		if statefulSet.Spec.Replicas != nil {
			desired = *statefulSet.Spec.Replicas
		}

		return statefulSet.Status.ReadyReplicas >= desired, nil
	})
}

package readiness

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForNodeReady polls until at least one node has condition Ready=True.
// Used after CNI installation, since nodes stay NotReady until the network
// plugin is functional.
func WaitForNodeReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // continue polling on transient errors
		}

		for i := range nodes.Items {
			if IsNodeReady(&nodes.Items[i]) {
				return true, nil
			}
		}

		return false, nil
	})
}

// WaitForAllNodesReady polls until every node in the cluster reports
// Ready=True and at least expectedNodes nodes exist. Used by cluster status
// checks after workers have joined.
func WaitForAllNodesReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	expectedNodes int,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // continue polling on transient errors
		}

		if len(nodes.Items) < expectedNodes {
			return false, nil
		}

		for i := range nodes.Items {
			if !IsNodeReady(&nodes.Items[i]) {
				return false, nil
			}
		}

		return true, nil
	})
}

// IsNodeReady reports whether the node has condition Ready=True.
func IsNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}

	return false
}

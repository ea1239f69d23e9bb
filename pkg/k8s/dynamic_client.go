package k8s

import (
	"fmt"

	"k8s.io/client-go/dynamic"
)

// NewDynamicClient creates a dynamic client from a kubeconfig path and
// optional context. Used for custom resources (MetalLB address pools,
// Argo CD applications) where no typed client exists.
func NewDynamicClient(kubeconfig, context string) (dynamic.Interface, error) {
	restConfig, err := BuildRESTConfig(kubeconfig, context)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	client, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return client, nil
}

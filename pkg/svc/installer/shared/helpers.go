package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
)

// DefaultInstallTimeout is the default timeout (5 minutes) for component
// installation.
const DefaultInstallTimeout = 5 * time.Minute

// GetInstallTimeout determines the timeout for component installation. Uses
// the cluster connection timeout if configured, otherwise
// DefaultInstallTimeout.
func GetInstallTimeout(clusterCfg *v1alpha1.Cluster) time.Duration {
	if clusterCfg == nil {
		return DefaultInstallTimeout
	}

	if clusterCfg.Spec.Cluster.Connection.Timeout.Duration > 0 {
		return clusterCfg.Spec.Cluster.Connection.Timeout.Duration
	}

	return DefaultInstallTimeout
}

// WaitForResourceReadiness waits for multiple Kubernetes workloads to become
// ready.
func WaitForResourceReadiness(
	ctx context.Context,
	kubeconfig, kubecontext string,
	checks []readiness.Check,
	timeout time.Duration,
	componentName string,
) error {
	clientset, err := k8s.NewClientset(kubeconfig, kubecontext)
	if err != nil {
		return fmt.Errorf("create kubernetes client: %w", err)
	}

	err = readiness.WaitForResources(ctx, clientset, checks, timeout)
	if err != nil {
		return fmt.Errorf("wait for %s components: %w", componentName, err)
	}

	return nil
}

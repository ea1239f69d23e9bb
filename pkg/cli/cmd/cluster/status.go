package cluster

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
)

const controlPlaneRoleLabel = "node-role.kubernetes.io/control-plane"

// ErrNodesNotReady is returned when at least one node reports NotReady.
var ErrNodesNotReady = errors.New("nodes not ready")

// NewStatusCmd creates the cluster status command.
func NewStatusCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the status of all cluster nodes",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleStatusRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleStatusRunE(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.ConfigManager,
) error {
	clusterCfg, err := cfgManager.LoadConfigSilent()
	if err != nil {
		return err
	}

	clientsetFactory, err := di.ResolveClientsetFactory(injector)
	if err != nil {
		return err
	}

	connection := clusterCfg.Spec.Cluster.Connection

	clientset, err := clientsetFactory(connection.Kubeconfig, connection.Context)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	nodes, err := clientset.CoreV1().Nodes().List(cmd.Context(), metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	notReady := 0

	table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "NAME\tROLE\tSTATUS\tVERSION")

	for i := range nodes.Items {
		node := &nodes.Items[i]

		status := "Ready"
		if !nodeReady(node) {
			status = "NotReady"
			notReady++
		}

		fmt.Fprintf(table, "%s\t%s\t%s\t%s\n",
			node.Name, nodeRole(node), status, node.Status.NodeInfo.KubeletVersion)
	}

	err = table.Flush()
	if err != nil {
		return fmt.Errorf("failed to render node table: %w", err)
	}

	if notReady > 0 {
		return fmt.Errorf("%w: %d of %d", ErrNodesNotReady, notReady, len(nodes.Items))
	}

	return nil
}

func nodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			return condition.Status == corev1.ConditionTrue
		}
	}

	return false
}

func nodeRole(node *corev1.Node) string {
	_, isControlPlane := node.Labels[controlPlaneRoleLabel]
	if isControlPlane {
		return "control-plane"
	}

	return "worker"
}

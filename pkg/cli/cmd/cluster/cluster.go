// Package cluster contains the node-local cluster lifecycle commands. Each
// command runs on the node it targets, the same way kubeadm itself does.
package cluster

import (
	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
)

// NewClusterCmd creates the cluster command group.
func NewClusterCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage the lifecycle of cluster nodes",
		Long: "Initialize the control plane, join workers, regenerate join " +
			"commands, reset node state and inspect node status.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(NewInitCmd(runtimeContainer))
	cmd.AddCommand(NewJoinCmd(runtimeContainer))
	cmd.AddCommand(NewJoinCommandCmd(runtimeContainer))
	cmd.AddCommand(NewResetCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

// resolveBootstrapper builds a bootstrapper from the injector's command
// runner and bootstrapper factory, writing progress to the command's output.
func resolveBootstrapper(
	cmd *cobra.Command,
	injector di.Injector,
	clusterCfg *v1alpha1.Cluster,
) (bootstrap.Bootstrapper, error) {
	runner, err := di.ResolveCommandRunner(injector)
	if err != nil {
		return nil, err
	}

	factory, err := di.ResolveBootstrapperFactory(injector)
	if err != nil {
		return nil, err
	}

	return factory(clusterCfg, runner, cmd.OutOrStdout()), nil
}

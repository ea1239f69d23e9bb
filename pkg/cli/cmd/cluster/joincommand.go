package cluster

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
)

// NewJoinCommandCmd creates the cluster join-command command.
func NewJoinCommandCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join-command",
		Short: "Create a fresh bootstrap token and print the worker join command",
		Long: "Create a fresh bootstrap token on the control plane and print the " +
			"full `kubeadm join` invocation for workers. Runs on the control-plane " +
			"node.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleJoinCommandRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleJoinCommandRunE(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.ConfigManager,
) error {
	clusterCfg, err := cfgManager.LoadConfigSilent()
	if err != nil {
		return err
	}

	bootstrapper, err := resolveBootstrapper(cmd, injector, clusterCfg)
	if err != nil {
		return err
	}

	joinCommand, err := bootstrapper.JoinCommand(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create join command: %w", err)
	}

	// Printed bare so the output can be piped straight to a worker shell.
	cmd.Println(joinCommand)

	return nil
}

package cluster

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

// NewResetCmd creates the cluster reset command.
func NewResetCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "reset",
		Short:        "Tear down the kubeadm-managed state on this node",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleResetRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleResetRunE(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.ConfigManager,
) error {
	out := cmd.OutOrStdout()

	tmr, err := di.ResolveTimer(injector)
	if err != nil {
		return err
	}

	tmr.Start()

	clusterCfg, err := cfgManager.LoadConfig(tmr)
	if err != nil {
		return err
	}

	bootstrapper, err := resolveBootstrapper(cmd, injector, clusterCfg)
	if err != nil {
		return err
	}

	notify.Titlef(out, "🧹", "Reset node...")
	tmr.NewStage()

	err = bootstrapper.Reset(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to reset node: %w", err)
	}

	notify.SuccessWithTimerf(out, tmr, "node reset")

	return nil
}

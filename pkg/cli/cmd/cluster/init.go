package cluster

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

// NewInitCmd creates the cluster init command.
func NewInitCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the control plane on this node",
		Long: "Run preflight checks, render the kubeadm configuration, execute " +
			"`kubeadm init`, wait for the API server and print the join command " +
			"for workers.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleInitRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleInitRunE(
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

	notify.Titlef(out, "🚀", "Initialize control plane...")
	tmr.NewStage()

	result, err := bootstrapper.Init(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize control plane: %w", err)
	}

	notify.SuccessWithTimerf(out, tmr, "control plane initialized")
	notify.Infof(out, "admin kubeconfig written to %s", result.KubeconfigPath)
	notify.Infof(out, "join workers with: %s", result.JoinCommand)

	return nil
}

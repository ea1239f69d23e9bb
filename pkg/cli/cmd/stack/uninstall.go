package stack

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

// NewUninstallCmd creates the stack uninstall command.
func NewUninstallCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall [component...]",
		Short: "Uninstall the component stack in reverse order",
		Long: "Uninstall all enabled components, or only the named ones, in the " +
			"reverse of the canonical install order so dependents are removed " +
			"before their dependencies.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleUninstallRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleUninstallRunE(
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

	components, err := selectComponents(clusterCfg, cmd.Flags().Args())
	if err != nil {
		return err
	}

	factory, err := newInstallerFactory(injector, clusterCfg)
	if err != nil {
		return err
	}

	installers := factory.CreateInstallersForConfig(clusterCfg)

	notify.Titlef(out, "🗑", "Uninstall stack...")

	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]

		componentInstaller, found := installers[component]
		if !found {
			notify.Warningf(out, "%s is disabled in the configuration, skipping", component)

			continue
		}

		tmr.NewStage()
		notify.Activityf(out, "uninstalling %s", component)

		err = componentInstaller.Uninstall(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to uninstall %s: %w", component, err)
		}

		notify.SuccessWithTimerf(out, tmr, "%s uninstalled", component)
	}

	return nil
}

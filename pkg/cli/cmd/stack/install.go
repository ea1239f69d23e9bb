package stack

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

// NewInstallCmd creates the stack install command.
func NewInstallCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [component...]",
		Short: "Install the component stack in its canonical order",
		Long: "Install all enabled components, or only the named ones. " +
			"Components always install in the canonical order " +
			"cilium, metallb, monitoring, postgres, redis, rabbitmq, argocd.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleInstallRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleInstallRunE(
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

	notify.Titlef(out, "📦", "Install stack...")

	for _, component := range components {
		componentInstaller, found := installers[component]
		if !found {
			notify.Warningf(out, "%s is disabled in the configuration, skipping", component)

			continue
		}

		tmr.NewStage()
		notify.Activityf(out, "installing %s", component)

		err = componentInstaller.Install(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", component, err)
		}

		notify.SuccessWithTimerf(out, tmr, "%s installed", component)
	}

	return nil
}

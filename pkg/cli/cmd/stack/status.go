package stack

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/svc/installer"
)

// NewStatusCmd creates the stack status command.
func NewStatusCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status [component...]",
		Short:        "Show the helm release state of the component stack",
		Args:         cobra.ArbitraryArgs,
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

	components, err := selectComponents(clusterCfg, cmd.Flags().Args())
	if err != nil {
		return err
	}

	helmFactory, err := di.ResolveHelmClientFactory(injector)
	if err != nil {
		return err
	}

	connection := clusterCfg.Spec.Cluster.Connection

	helmClient, err := helmFactory(connection.Kubeconfig, connection.Context)
	if err != nil {
		return fmt.Errorf("failed to create helm client: %w", err)
	}

	table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "COMPONENT\tRELEASE\tNAMESPACE\tSTATUS\tREVISION")

	for _, component := range components {
		coordinates, found := installer.ReleaseFor(component)
		if !found {
			continue
		}

		status := "not installed"
		revision := "-"

		release, getErr := helmClient.GetRelease(
			cmd.Context(), coordinates.ReleaseName, coordinates.Namespace,
		)
		if getErr == nil && release != nil {
			status = release.Status
			revision = fmt.Sprintf("%d", release.Revision)
		}

		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			component, coordinates.ReleaseName, coordinates.Namespace, status, revision)
	}

	err = table.Flush()
	if err != nil {
		return fmt.Errorf("failed to render release table: %w", err)
	}

	return nil
}

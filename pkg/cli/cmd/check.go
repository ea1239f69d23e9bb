package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/svc/checker"
	"github.com/homelab-dev/homelab/pkg/svc/installer/shared"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

// NewCheckCmd creates the check command.
func NewCheckCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run smoke checks against the deployed stack",
		Long: "Verify workload readiness for every enabled component, " +
			"LoadBalancer address assignment and sample application health, " +
			"and print a result table. Exits non-zero when any check fails.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleCheckRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleCheckRunE(
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

	clientsetFactory, err := di.ResolveClientsetFactory(injector)
	if err != nil {
		return err
	}

	connection := clusterCfg.Spec.Cluster.Connection

	clientset, err := clientsetFactory(connection.Kubeconfig, connection.Context)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	notify.Titlef(out, "🩺", "Check stack...")
	tmr.NewStage()

	stackChecker := checker.NewChecker(
		clusterCfg, clientset, shared.GetInstallTimeout(clusterCfg),
	)

	results, runErr := stackChecker.Run(cmd.Context())

	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "CHECK\tSTATUS\tDETAIL")

	for _, result := range results {
		status := "ok"
		detail := result.Detail

		if !result.Passed() {
			status = "failed"
			detail = result.Err.Error()
		}

		fmt.Fprintf(table, "%s\t%s\t%s\n", result.Name, status, detail)
	}

	err = table.Flush()
	if err != nil {
		return fmt.Errorf("failed to render check table: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("stack checks failed: %w", runErr)
	}

	notify.SuccessWithTimerf(out, tmr, "all checks passed")

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/cli/cmd/cluster"
	"github.com/homelab-dev/homelab/pkg/cli/cmd/stack"
	"github.com/homelab-dev/homelab/pkg/cli/ui/asciiart"
	"github.com/homelab-dev/homelab/pkg/cli/ui/errorhandler"
	"github.com/homelab-dev/homelab/pkg/di"
)

// NewRootCmd creates the root command with version info and all subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := di.NewRuntime()

	cmd := &cobra.Command{
		Use:   "homelab",
		Short: "Homelab bootstraps a kubeadm Kubernetes cluster and its component stack",
		Long: "Homelab is a CLI tool for bootstrapping a kubeadm Kubernetes cluster " +
			"and deploying its component stack (Cilium, MetalLB, monitoring, " +
			"PostgreSQL, Redis, RabbitMQ and Argo CD) in a fixed order.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.AddCommand(cluster.NewClusterCmd(runtimeContainer))
	cmd.AddCommand(stack.NewStackCmd(runtimeContainer))
	cmd.AddCommand(NewCheckCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	err := errorhandler.NewExecutor().Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	asciiart.PrintHomelabLogo(cmd.OutOrStdout())

	// Help can only fail on a broken template, which is a programming error.
	_ = cmd.Help()

	return nil
}

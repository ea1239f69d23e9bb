// Package stack contains the commands that deploy, remove and inspect the
// homelab component stack through helm.
package stack

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/svc/installer"
	"github.com/homelab-dev/homelab/pkg/svc/installer/shared"
)

// NewStackCmd creates the stack command group.
func NewStackCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Manage the homelab component stack",
		Long: "Install, uninstall and inspect the component stack: Cilium, " +
			"MetalLB, monitoring, PostgreSQL, Redis, RabbitMQ and Argo CD.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(NewInstallCmd(runtimeContainer))
	cmd.AddCommand(NewUninstallCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

// selectComponents resolves the component arguments into canonical install
// order. Without arguments every enabled component is selected; with
// arguments the named components are selected in canonical order regardless
// of how they were passed.
func selectComponents(
	clusterCfg *v1alpha1.Cluster,
	args []string,
) ([]v1alpha1.Component, error) {
	if len(args) == 0 {
		return clusterCfg.EnabledComponents(), nil
	}

	requested := make(map[v1alpha1.Component]struct{}, len(args))

	for _, arg := range args {
		component, err := v1alpha1.ParseComponent(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, arg)
		}

		requested[component] = struct{}{}
	}

	selected := make([]v1alpha1.Component, 0, len(requested))

	for _, component := range v1alpha1.ComponentInstallOrder() {
		if _, found := requested[component]; found {
			selected = append(selected, component)
		}
	}

	return selected, nil
}

// newInstallerFactory builds the installer factory from the injector's helm
// client factory and the cluster connection settings.
func newInstallerFactory(
	injector di.Injector,
	clusterCfg *v1alpha1.Cluster,
) (*installer.Factory, error) {
	helmFactory, err := di.ResolveHelmClientFactory(injector)
	if err != nil {
		return nil, err
	}

	connection := clusterCfg.Spec.Cluster.Connection

	helmClient, err := helmFactory(connection.Kubeconfig, connection.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create helm client: %w", err)
	}

	return installer.NewFactory(
		helmClient,
		connection.Kubeconfig,
		connection.Context,
		shared.GetInstallTimeout(clusterCfg),
	), nil
}

package cluster

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
)

const (
	tokenFlagName      = "token"
	caCertHashFlagName = "discovery-token-ca-cert-hash"
	endpointFlagName   = "endpoint"
)

// ErrEndpointRequired is returned when neither the --endpoint flag nor the
// configuration provides a control-plane endpoint.
var ErrEndpointRequired = errors.New(
	"control-plane endpoint required; set --endpoint or spec.network.controlPlaneEndpoint",
)

// NewJoinCmd creates the cluster join command.
func NewJoinCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "join",
		Short:        "Join this node to an existing cluster as a worker",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.Flags().String(tokenFlagName, "",
		"Bootstrap token in the form abcdef.0123456789abcdef")
	cmd.Flags().String(caCertHashFlagName, "",
		"Discovery token CA cert hash in the form sha256:<hex>")
	cmd.Flags().String(endpointFlagName, "",
		"Control-plane endpoint host:port (defaults to spec.network.controlPlaneEndpoint)")

	_ = cmd.MarkFlagRequired(tokenFlagName)
	_ = cmd.MarkFlagRequired(caCertHashFlagName)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer,
		func(cmd *cobra.Command, injector di.Injector) error {
			return handleJoinRunE(cmd, injector, cfgManager)
		})

	return cmd
}

func handleJoinRunE(
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

	request, err := joinRequestFromFlags(cmd, clusterCfg.Spec.Network.ControlPlaneEndpoint)
	if err != nil {
		return err
	}

	bootstrapper, err := resolveBootstrapper(cmd, injector, clusterCfg)
	if err != nil {
		return err
	}

	notify.Titlef(out, "🔗", "Join node...")
	tmr.NewStage()

	err = bootstrapper.Join(cmd.Context(), request)
	if err != nil {
		return fmt.Errorf("failed to join node: %w", err)
	}

	notify.SuccessWithTimerf(out, tmr, "node joined")

	return nil
}

func joinRequestFromFlags(
	cmd *cobra.Command,
	configuredEndpoint string,
) (bootstrap.JoinRequest, error) {
	token, err := cmd.Flags().GetString(tokenFlagName)
	if err != nil {
		return bootstrap.JoinRequest{}, fmt.Errorf("failed to read flag %q: %w", tokenFlagName, err)
	}

	caCertHash, err := cmd.Flags().GetString(caCertHashFlagName)
	if err != nil {
		return bootstrap.JoinRequest{}, fmt.Errorf(
			"failed to read flag %q: %w", caCertHashFlagName, err,
		)
	}

	endpoint, err := cmd.Flags().GetString(endpointFlagName)
	if err != nil {
		return bootstrap.JoinRequest{}, fmt.Errorf(
			"failed to read flag %q: %w", endpointFlagName, err,
		)
	}

	if endpoint == "" {
		endpoint = configuredEndpoint
	}

	if endpoint == "" {
		return bootstrap.JoinRequest{}, ErrEndpointRequired
	}

	return bootstrap.JoinRequest{
		Endpoint:   endpoint,
		Token:      token,
		CACertHash: caCertHash,
	}, nil
}

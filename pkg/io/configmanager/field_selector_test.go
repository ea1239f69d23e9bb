package configmanager_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
)

func TestDefaultClusterFieldSelectors(t *testing.T) {
	t.Parallel()

	selectors := configmanager.DefaultClusterFieldSelectors()

	require.Len(t, selectors, 3)

	flagNames := make([]string, 0, len(selectors))
	for _, selector := range selectors {
		flagNames = append(flagNames, selector.FlagName)
	}

	assert.Equal(t, []string{"kubeconfig", "context", "timeout"}, flagNames)
}

func TestFieldSelectors_PointIntoConnection(t *testing.T) {
	t.Parallel()

	config := v1alpha1.NewCluster()

	kubeconfig, ok := configmanager.KubeconfigFieldSelector().Selector(config).(*string)
	require.True(t, ok)
	assert.Same(t, &config.Spec.Cluster.Connection.Kubeconfig, kubeconfig)

	context, ok := configmanager.ContextFieldSelector().Selector(config).(*string)
	require.True(t, ok)
	assert.Same(t, &config.Spec.Cluster.Connection.Context, context)

	timeout, ok := configmanager.TimeoutFieldSelector().Selector(config).(*metav1.Duration)
	require.True(t, ok)
	assert.Same(t, &config.Spec.Cluster.Connection.Timeout, timeout)
}

func TestNewCommandConfigManager_RegistersFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}

	manager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	require.NotNil(t, manager)
	assert.NotNil(t, cmd.Flags().Lookup("kubeconfig"))
	assert.NotNil(t, cmd.Flags().Lookup("context"))
	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
}

package configmanager_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/io/configmanager"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
)

// chdirToScratch isolates each test from real config files in the working
// directory and in $HOME/.config/homelab.
func chdirToScratch(t *testing.T) string {
	t.Helper()

	scratch := t.TempDir()
	t.Chdir(scratch)
	t.Setenv("HOME", scratch)

	return scratch
}

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, "homelab.yaml"), []byte(content), 0o600)
	require.NoError(t, err)
}

func TestLoadConfigSilent_NoConfigFile(t *testing.T) {
	chdirToScratch(t)

	manager := configmanager.NewConfigManager(&bytes.Buffer{})

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	require.NotNil(t, config)
	assert.False(t, manager.ConfigFileFound())
	assert.Equal(t, v1alpha1.DefaultClusterName, config.Spec.Cluster.Name)
	assert.Equal(t, v1alpha1.DefaultPodCIDR, config.Spec.Network.PodCIDR)
	assert.Equal(t, v1alpha1.DefaultServiceCIDR, config.Spec.Network.ServiceCIDR)
}

func TestLoadConfigSilent_ReadsConfigFile(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, `
spec:
  cluster:
    name: lab
    connection:
      timeout: 2m
  network:
    podCIDR: 10.100.0.0/16
  components:
    cilium:
      enabled: true
    metallb:
      enabled: true
      addressPool: 192.168.1.200-192.168.1.210
`)

	manager := configmanager.NewConfigManager(&bytes.Buffer{})

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	assert.True(t, manager.ConfigFileFound())
	assert.Equal(t, "lab", config.Spec.Cluster.Name)
	assert.Equal(t, 2*time.Minute, config.Spec.Cluster.Connection.Timeout.Duration)
	assert.Equal(t, "10.100.0.0/16", config.Spec.Network.PodCIDR)
	assert.True(t, config.Spec.Components.Cilium.Enabled)
	assert.Equal(t, "192.168.1.200-192.168.1.210", config.Spec.Components.MetalLB.AddressPool)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, v1alpha1.DefaultServiceCIDR, config.Spec.Network.ServiceCIDR)
	assert.Equal(t, v1alpha1.DefaultPostgresDatabase, config.Spec.Components.Postgres.Database)
}

func TestLoadConfigSilent_InvalidConfigReturnsError(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, `
spec:
  network:
    podCIDR: not-a-cidr
`)

	manager := configmanager.NewConfigManager(&bytes.Buffer{})

	_, err := manager.LoadConfigSilent()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfigSilent_MalformedYAMLReturnsError(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, "spec: [unclosed")

	manager := configmanager.NewConfigManager(&bytes.Buffer{})

	_, err := manager.LoadConfigSilent()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigSilent_AppliesFieldSelectorDefaults(t *testing.T) {
	chdirToScratch(t)

	manager := configmanager.NewConfigManager(
		&bytes.Buffer{},
		configmanager.DefaultClusterFieldSelectors()...,
	)

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	assert.NotEmpty(t, config.Spec.Cluster.Connection.Kubeconfig)
	assert.Equal(
		t,
		v1alpha1.DefaultConnectionTimeout,
		config.Spec.Cluster.Connection.Timeout.Duration,
	)
}

func TestLoadConfigSilent_FlagOverrides(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, `
spec:
  cluster:
    connection:
      context: from-file
`)

	cmd := &cobra.Command{Use: "test"}
	manager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	require.NoError(t, cmd.Flags().Set("context", "from-flag"))
	require.NoError(t, cmd.Flags().Set("timeout", "90s"))

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	assert.Equal(t, "from-flag", config.Spec.Cluster.Connection.Context)
	assert.Equal(t, 90*time.Second, config.Spec.Cluster.Connection.Timeout.Duration)
}

func TestLoadConfigSilent_UnsetFlagsDoNotOverrideFile(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, `
spec:
  cluster:
    connection:
      context: from-file
`)

	cmd := &cobra.Command{Use: "test"}
	manager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	assert.Equal(t, "from-file", config.Spec.Cluster.Connection.Context)
}

func TestLoadConfig_NotifiesProgress(t *testing.T) {
	chdirToScratch(t)

	var output bytes.Buffer

	manager := configmanager.NewConfigManager(&output)

	tmr := timer.New()
	tmr.Start()

	config, err := manager.LoadConfig(tmr)

	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Contains(t, output.String(), "Load config...")
	assert.Contains(t, output.String(), "using default config")
	assert.Contains(t, output.String(), "config loaded")
}

func TestLoadConfig_NotifiesConfigFileFound(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, "spec:\n  cluster:\n    name: lab\n")

	var output bytes.Buffer

	manager := configmanager.NewConfigManager(&output)

	tmr := timer.New()
	tmr.Start()

	_, err := manager.LoadConfig(tmr)

	require.NoError(t, err)
	assert.Contains(t, output.String(), "homelab.yaml")
	assert.Contains(t, output.String(), "found")
}

func TestLoadConfig_CachesResult(t *testing.T) {
	chdirToScratch(t)

	var output bytes.Buffer

	manager := configmanager.NewConfigManager(&output)

	tmr := timer.New()
	tmr.Start()

	first, err := manager.LoadConfig(tmr)
	require.NoError(t, err)

	output.Reset()

	second, err := manager.LoadConfig(tmr)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Empty(t, output.String(), "cached load should not notify again")
}

func TestLoadConfigSilent_EnvironmentOverridesFile(t *testing.T) {
	scratch := chdirToScratch(t)

	writeConfigFile(t, scratch, `
spec:
  cluster:
    name: from-file
`)

	t.Setenv("HOMELAB_SPEC_CLUSTER_NAME", "from-env")

	manager := configmanager.NewConfigManager(&bytes.Buffer{})

	config, err := manager.LoadConfigSilent()

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Spec.Cluster.Name)
}

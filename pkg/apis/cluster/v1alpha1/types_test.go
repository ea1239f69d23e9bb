package v1alpha1_test

import (
	"testing"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCluster_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cluster := v1alpha1.NewCluster()

	assert.Equal(t, v1alpha1.APIVersion, cluster.APIVersion)
	assert.Equal(t, v1alpha1.Kind, cluster.Kind)
	assert.Equal(t, v1alpha1.DefaultClusterName, cluster.Spec.Cluster.Name)
	assert.Equal(t, v1alpha1.DefaultPodCIDR, cluster.Spec.Network.PodCIDR)
	assert.Equal(t, v1alpha1.DefaultServiceCIDR, cluster.Spec.Network.ServiceCIDR)
	assert.Equal(t, v1alpha1.DefaultMetalLBAddressPool, cluster.Spec.Components.MetalLB.AddressPool)
	assert.Equal(
		t,
		v1alpha1.DefaultConnectionTimeout,
		cluster.Spec.Cluster.Connection.Timeout.Duration,
	)
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	t.Parallel()

	cluster := &v1alpha1.Cluster{}
	cluster.Spec.Cluster.Name = "lab"
	cluster.Spec.Network.PodCIDR = "10.10.0.0/16"
	cluster.Spec.Components.MetalLB.AddressPool = "10.0.0.0/28"

	cluster.SetDefaults()

	assert.Equal(t, "lab", cluster.Spec.Cluster.Name)
	assert.Equal(t, "10.10.0.0/16", cluster.Spec.Network.PodCIDR)
	assert.Equal(t, "10.0.0.0/28", cluster.Spec.Components.MetalLB.AddressPool)
}

func TestComponentInstallOrder_CNIFirstGitOpsLast(t *testing.T) {
	t.Parallel()

	order := v1alpha1.ComponentInstallOrder()

	require.Len(t, order, 7)
	assert.Equal(t, v1alpha1.ComponentCilium, order[0])
	assert.Equal(t, v1alpha1.ComponentMetalLB, order[1])
	assert.Equal(t, v1alpha1.ComponentArgoCD, order[len(order)-1])
}

func TestEnabledComponents_FollowsCanonicalOrder(t *testing.T) {
	t.Parallel()

	cluster := v1alpha1.NewCluster()
	cluster.Spec.Components.ArgoCD.Enabled = true
	cluster.Spec.Components.Cilium.Enabled = true
	cluster.Spec.Components.Redis.Enabled = true

	enabled := cluster.EnabledComponents()

	require.Equal(t, []v1alpha1.Component{
		v1alpha1.ComponentCilium,
		v1alpha1.ComponentRedis,
		v1alpha1.ComponentArgoCD,
	}, enabled)
}

func TestParseComponent(t *testing.T) {
	t.Parallel()

	component, err := v1alpha1.ParseComponent("metallb")

	require.NoError(t, err)
	assert.Equal(t, v1alpha1.ComponentMetalLB, component)

	_, err = v1alpha1.ParseComponent("nginx")

	require.ErrorIs(t, err, v1alpha1.ErrUnknownComponent)
}

func TestNodeRoleHelpers(t *testing.T) {
	t.Parallel()

	cluster := v1alpha1.NewCluster()
	cluster.Spec.Nodes = []v1alpha1.Node{
		{Name: "master-1", Role: v1alpha1.NodeRoleControlPlane, Address: "192.168.1.10"},
		{Name: "worker-1", Role: v1alpha1.NodeRoleWorker, Address: "192.168.1.11"},
		{Name: "worker-2", Role: v1alpha1.NodeRoleWorker, Address: "192.168.1.12"},
	}

	require.Len(t, cluster.ControlPlaneNodes(), 1)
	require.Len(t, cluster.WorkerNodes(), 2)
	assert.Equal(t, "master-1", cluster.ControlPlaneNodes()[0].Name)
}

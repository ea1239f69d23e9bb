package metallbinstaller_test

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	metallbinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/metallb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	dynamicfake "k8s.io/client-go/dynamic/fake"
)

func newInstallerWithDefaults(
	t *testing.T,
	addressPool string,
) (*metallbinstaller.Installer, *helm.MockInterface, dynamic.Interface) {
	t.Helper()

	client := helm.NewMockInterface(t)
	installer := metallbinstaller.NewInstaller(
		client,
		"~/.kube/config",
		"homelab",
		5*time.Minute,
		v1alpha1.MetalLBSpec{Enabled: true, AddressPool: addressPool},
	)
	installer.SetWaitForReadinessFunc(func(context.Context) error { return nil })

	dynamicClient := dynamicfake.NewSimpleDynamicClient(runtime.NewScheme())
	installer.SetDynamicClientFactory(func() (dynamic.Interface, error) {
		return dynamicClient, nil
	})

	return installer, client, dynamicClient
}

func expectHelmInstall(client *helm.MockInterface) {
	client.EXPECT().
		AddRepository(mock.Anything, &helm.RepositoryEntry{
			Name: "metallb",
			URL:  "https://metallb.github.io/metallb",
		}).
		Return(nil).
		Once()
	client.EXPECT().
		InstallOrUpgradeChart(mock.Anything, mock.Anything).
		Return(&helm.ReleaseInfo{Name: "metallb"}, nil).
		Once()
}

func TestInstall_CreatesAddressPoolResources(t *testing.T) {
	t.Parallel()

	installer, client, dynamicClient := newInstallerWithDefaults(t, "10.0.0.100-10.0.0.200")
	expectHelmInstall(client)

	err := installer.Install(context.Background())

	require.NoError(t, err)

	poolGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "ipaddresspools",
	}

	pool, err := dynamicClient.Resource(poolGVR).Namespace("metallb-system").
		Get(context.Background(), "default-pool", metav1.GetOptions{})

	require.NoError(t, err)

	addresses, found, err := unstructured.NestedSlice(pool.Object, "spec", "addresses")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{"10.0.0.100-10.0.0.200"}, addresses)

	advertGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "l2advertisements",
	}

	_, err = dynamicClient.Resource(advertGVR).Namespace("metallb-system").
		Get(context.Background(), "default-l2-advert", metav1.GetOptions{})

	require.NoError(t, err)
}

func TestInstall_DefaultsAddressPool(t *testing.T) {
	t.Parallel()

	installer, client, dynamicClient := newInstallerWithDefaults(t, "")
	expectHelmInstall(client)

	err := installer.Install(context.Background())

	require.NoError(t, err)

	poolGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "ipaddresspools",
	}

	pool, err := dynamicClient.Resource(poolGVR).Namespace("metallb-system").
		Get(context.Background(), "default-pool", metav1.GetOptions{})

	require.NoError(t, err)

	addresses, found, err := unstructured.NestedSlice(pool.Object, "spec", "addresses")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{v1alpha1.DefaultMetalLBAddressPool}, addresses)
}

func TestInstall_ReadinessGateBeforeConfiguration(t *testing.T) {
	t.Parallel()

	installer, client, dynamicClient := newInstallerWithDefaults(t, "")
	installer.SetWaitForReadinessFunc(func(context.Context) error { return assert.AnError })
	expectHelmInstall(client)

	err := installer.Install(context.Background())

	require.Error(t, err)
	require.ErrorIs(t, err, assert.AnError)

	poolGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "ipaddresspools",
	}

	_, err = dynamicClient.Resource(poolGVR).Namespace("metallb-system").
		Get(context.Background(), "default-pool", metav1.GetOptions{})

	require.Error(t, err)
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	installer, client, _ := newInstallerWithDefaults(t, "")

	client.EXPECT().
		UninstallRelease(mock.Anything, "metallb", "metallb-system").
		Return(nil).
		Once()

	err := installer.Uninstall(context.Background())

	require.NoError(t, err)
}

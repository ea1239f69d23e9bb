package argocdinstaller_test

import (
	"context"
	"testing"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	argocdinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/argocd"
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

var applicationGVR = schema.GroupVersionResource{
	Group:    "argoproj.io",
	Version:  "v1alpha1",
	Resource: "applications",
}

func newInstallerWithDefaults(
	t *testing.T,
	spec v1alpha1.ArgoCDSpec,
) (*argocdinstaller.Installer, *helm.MockInterface, dynamic.Interface) {
	t.Helper()

	client := helm.NewMockInterface(t)
	installer := argocdinstaller.NewInstaller(
		client,
		"~/.kube/config",
		"homelab",
		5*time.Minute,
		spec,
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
			Name: "argo",
			URL:  "https://argoproj.github.io/argo-helm",
		}).
		Return(nil).
		Once()
	client.EXPECT().
		InstallOrUpgradeChart(mock.Anything, mock.Anything).
		Return(&helm.ReleaseInfo{Name: "argocd"}, nil).
		Once()
}

func TestInstall_RegistersRootApplication(t *testing.T) {
	t.Parallel()

	installer, client, dynamicClient := newInstallerWithDefaults(t, v1alpha1.ArgoCDSpec{
		Enabled: true,
		RepoURL: "https://github.com/example/homelab.git",
	})
	expectHelmInstall(client)

	err := installer.Install(context.Background())

	require.NoError(t, err)

	application, err := dynamicClient.Resource(applicationGVR).Namespace("argocd").
		Get(context.Background(), "homelab-apps", metav1.GetOptions{})

	require.NoError(t, err)

	repoURL, _, err := unstructured.NestedString(application.Object, "spec", "source", "repoURL")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/homelab.git", repoURL)

	revision, _, err := unstructured.NestedString(
		application.Object, "spec", "source", "targetRevision",
	)
	require.NoError(t, err)
	assert.Equal(t, v1alpha1.DefaultArgoCDTargetRevision, revision)

	path, _, err := unstructured.NestedString(application.Object, "spec", "source", "path")
	require.NoError(t, err)
	assert.Equal(t, v1alpha1.DefaultArgoCDAppsPath, path)
}

func TestInstall_NoRepositoryConfigured(t *testing.T) {
	t.Parallel()

	installer, client, dynamicClient := newInstallerWithDefaults(t, v1alpha1.ArgoCDSpec{
		Enabled: true,
	})
	expectHelmInstall(client)

	err := installer.Install(context.Background())

	require.NoError(t, err)

	_, err = dynamicClient.Resource(applicationGVR).Namespace("argocd").
		Get(context.Background(), "homelab-apps", metav1.GetOptions{})

	require.Error(t, err)
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	installer, client, _ := newInstallerWithDefaults(t, v1alpha1.ArgoCDSpec{Enabled: true})

	client.EXPECT().
		UninstallRelease(mock.Anything, "argocd", "argocd").
		Return(nil).
		Once()

	err := installer.Uninstall(context.Background())

	require.NoError(t, err)
}

// Package argocdinstaller installs Argo CD and registers the GitOps
// application that tracks the homelab repository.
package argocdinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"github.com/homelab-dev/homelab/pkg/svc/installer/shared"
	"k8s.io/client-go/dynamic"
)

const (
	argoCDRepoName  = "argo"
	argoCDRepoURL   = "https://argoproj.github.io/argo-helm"
	argoCDRelease   = "argocd"
	argoCDNamespace = "argocd"
	argoCDChartName = "argo/argo-cd"
)

// Installer installs or upgrades Argo CD via its Helm chart. When a GitOps
// repository URL is configured, it also creates the root Application that
// points Argo CD at the applications directory of that repository.
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.ArgoCDSpec

	waitForReadiness func(ctx context.Context) error
	newDynamicClient func() (dynamic.Interface, error)
}

// NewInstaller creates a new Argo CD installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.ArgoCDSpec,
) *Installer {
	if spec.TargetRevision == "" {
		spec.TargetRevision = v1alpha1.DefaultArgoCDTargetRevision
	}

	if spec.AppsPath == "" {
		spec.AppsPath = v1alpha1.DefaultArgoCDAppsPath
	}

	argoCDInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	argoCDInstaller.waitForReadiness = argoCDInstaller.defaultWaitForReadiness
	argoCDInstaller.newDynamicClient = func() (dynamic.Interface, error) {
		return k8s.NewDynamicClient(kubeconfig, kubecontext)
	}

	return argoCDInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (a *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = a.defaultWaitForReadiness
	}

	a.waitForReadiness = waitFunc
}

// SetDynamicClientFactory overrides how the dynamic client is constructed.
// Primarily used for testing.
func (a *Installer) SetDynamicClientFactory(factory func() (dynamic.Interface, error)) {
	a.newDynamicClient = factory
}

// Install installs or upgrades Argo CD, waits for the server and repo-server
// to become ready, then registers the root Application when a repository is
// configured.
func (a *Installer) Install(ctx context.Context) error {
	err := a.helmInstallOrUpgradeArgoCD(ctx)
	if err != nil {
		return fmt.Errorf("failed to install argocd: %w", err)
	}

	err = a.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("argocd did not become ready: %w", err)
	}

	if a.spec.RepoURL != "" {
		err = a.createRootApplication(ctx)
		if err != nil {
			return fmt.Errorf("failed to register gitops application: %w", err)
		}
	}

	return nil
}

// Uninstall removes the Helm release for Argo CD.
func (a *Installer) Uninstall(ctx context.Context) error {
	err := a.client.UninstallRelease(ctx, argoCDRelease, argoCDNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall argocd release: %w", err)
	}

	return nil
}

// --- internals ---

func (a *Installer) helmInstallOrUpgradeArgoCD(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: argoCDRepoName, URL: argoCDRepoURL}

	err := a.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add argo repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     argoCDRelease,
		ChartName:       argoCDChartName,
		Namespace:       argoCDNamespace,
		RepoURL:         argoCDRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		UpgradeCRDs:     true,
		Timeout:         a.timeout,
		SetValues: map[string]string{
			"server.service.type": "LoadBalancer",
		},
	}

	_, err = a.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install argocd chart: %w", err)
	}

	return nil
}

func (a *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{Kind: readiness.KindDeployment, Namespace: argoCDNamespace, Name: "argocd-server"},
		{Kind: readiness.KindDeployment, Namespace: argoCDNamespace, Name: "argocd-repo-server"},
	}

	err := shared.WaitForResourceReadiness(
		ctx, a.kubeconfig, a.kubecontext, checks, a.timeout, "argocd",
	)
	if err != nil {
		return fmt.Errorf("wait for argocd readiness: %w", err)
	}

	return nil
}

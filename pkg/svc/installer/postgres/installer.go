// Package postgresinstaller installs PostgreSQL via the bitnami chart.
package postgresinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"github.com/homelab-dev/homelab/pkg/svc/installer/shared"
)

const (
	postgresRepoName  = "bitnami"
	postgresRepoURL   = "https://charts.bitnami.com/bitnami"
	postgresRelease   = "postgresql"
	postgresNamespace = "data"
	postgresChartName = "bitnami/postgresql"
)

// Installer installs or upgrades PostgreSQL.
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.PostgresSpec

	waitForReadiness func(ctx context.Context) error
}

// NewInstaller creates a new PostgreSQL installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.PostgresSpec,
) *Installer {
	if spec.Database == "" {
		spec.Database = v1alpha1.DefaultPostgresDatabase
	}

	postgresInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	postgresInstaller.waitForReadiness = postgresInstaller.defaultWaitForReadiness

	return postgresInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (p *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = p.defaultWaitForReadiness
	}

	p.waitForReadiness = waitFunc
}

// Install installs or upgrades PostgreSQL via its Helm chart and waits for
// the StatefulSet to become ready.
func (p *Installer) Install(ctx context.Context) error {
	err := p.helmInstallOrUpgradePostgres(ctx)
	if err != nil {
		return fmt.Errorf("failed to install postgresql: %w", err)
	}

	err = p.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("postgresql did not become ready: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for PostgreSQL.
func (p *Installer) Uninstall(ctx context.Context) error {
	err := p.client.UninstallRelease(ctx, postgresRelease, postgresNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall postgresql release: %w", err)
	}

	return nil
}

// --- internals ---

func (p *Installer) helmInstallOrUpgradePostgres(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: postgresRepoName, URL: postgresRepoURL}

	err := p.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add bitnami repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     postgresRelease,
		ChartName:       postgresChartName,
		Namespace:       postgresNamespace,
		RepoURL:         postgresRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		Timeout:         p.timeout,
		SetValues:       p.postgresValues(),
	}

	_, err = p.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install postgresql chart: %w", err)
	}

	return nil
}

func (p *Installer) postgresValues() map[string]string {
	values := map[string]string{
		"fullnameOverride":            postgresRelease,
		"auth.database":               p.spec.Database,
		"primary.persistence.enabled": "true",
	}

	if p.spec.Username != "" {
		values["auth.username"] = p.spec.Username
	}

	if p.spec.Password != "" {
		values["auth.password"] = p.spec.Password
		values["auth.postgresPassword"] = p.spec.Password
	}

	return values
}

func (p *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{Kind: readiness.KindStatefulSet, Namespace: postgresNamespace, Name: postgresRelease},
	}

	err := shared.WaitForResourceReadiness(
		ctx, p.kubeconfig, p.kubecontext, checks, p.timeout, "postgresql",
	)
	if err != nil {
		return fmt.Errorf("wait for postgresql readiness: %w", err)
	}

	return nil
}

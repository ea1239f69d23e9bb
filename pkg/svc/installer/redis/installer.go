// Package redisinstaller installs Redis via the bitnami chart.
package redisinstaller

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
	redisRepoName  = "bitnami"
	redisRepoURL   = "https://charts.bitnami.com/bitnami"
	redisRelease   = "redis"
	redisNamespace = "data"
	redisChartName = "bitnami/redis"
)

// Installer installs or upgrades Redis in standalone mode.
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.RedisSpec

	waitForReadiness func(ctx context.Context) error
}

// NewInstaller creates a new Redis installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.RedisSpec,
) *Installer {
	redisInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	redisInstaller.waitForReadiness = redisInstaller.defaultWaitForReadiness

	return redisInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (r *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = r.defaultWaitForReadiness
	}

	r.waitForReadiness = waitFunc
}

// Install installs or upgrades Redis via its Helm chart and waits for the
// master StatefulSet to become ready.
func (r *Installer) Install(ctx context.Context) error {
	err := r.helmInstallOrUpgradeRedis(ctx)
	if err != nil {
		return fmt.Errorf("failed to install redis: %w", err)
	}

	err = r.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("redis did not become ready: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Redis.
func (r *Installer) Uninstall(ctx context.Context) error {
	err := r.client.UninstallRelease(ctx, redisRelease, redisNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall redis release: %w", err)
	}

	return nil
}

// --- internals ---

func (r *Installer) helmInstallOrUpgradeRedis(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: redisRepoName, URL: redisRepoURL}

	err := r.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add bitnami repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     redisRelease,
		ChartName:       redisChartName,
		Namespace:       redisNamespace,
		RepoURL:         redisRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		Timeout:         r.timeout,
		SetValues:       r.redisValues(),
	}

	_, err = r.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install redis chart: %w", err)
	}

	return nil
}

// redisValues pins standalone architecture and a stable service name so
// clients can reach the instance as plain "redis".
func (r *Installer) redisValues() map[string]string {
	values := map[string]string{
		"fullnameOverride": redisRelease,
		"architecture":     "standalone",
	}

	if r.spec.Password != "" {
		values["auth.enabled"] = "true"
		values["auth.password"] = r.spec.Password
	} else {
		values["auth.enabled"] = "false"
	}

	return values
}

func (r *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{Kind: readiness.KindStatefulSet, Namespace: redisNamespace, Name: redisRelease + "-master"},
	}

	err := shared.WaitForResourceReadiness(
		ctx, r.kubeconfig, r.kubecontext, checks, r.timeout, "redis",
	)
	if err != nil {
		return fmt.Errorf("wait for redis readiness: %w", err)
	}

	return nil
}

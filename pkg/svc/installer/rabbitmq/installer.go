// Package rabbitmqinstaller installs RabbitMQ via the bitnami chart.
package rabbitmqinstaller

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
	rabbitmqRepoName  = "bitnami"
	rabbitmqRepoURL   = "https://charts.bitnami.com/bitnami"
	rabbitmqRelease   = "rabbitmq"
	rabbitmqNamespace = "data"
	rabbitmqChartName = "bitnami/rabbitmq"
)

// Installer installs or upgrades RabbitMQ.
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.RabbitMQSpec

	waitForReadiness func(ctx context.Context) error
}

// NewInstaller creates a new RabbitMQ installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.RabbitMQSpec,
) *Installer {
	rabbitmqInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	rabbitmqInstaller.waitForReadiness = rabbitmqInstaller.defaultWaitForReadiness

	return rabbitmqInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (r *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = r.defaultWaitForReadiness
	}

	r.waitForReadiness = waitFunc
}

// Install installs or upgrades RabbitMQ via its Helm chart and waits for the
// StatefulSet to become ready.
func (r *Installer) Install(ctx context.Context) error {
	err := r.helmInstallOrUpgradeRabbitMQ(ctx)
	if err != nil {
		return fmt.Errorf("failed to install rabbitmq: %w", err)
	}

	err = r.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq did not become ready: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for RabbitMQ.
func (r *Installer) Uninstall(ctx context.Context) error {
	err := r.client.UninstallRelease(ctx, rabbitmqRelease, rabbitmqNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall rabbitmq release: %w", err)
	}

	return nil
}

// --- internals ---

func (r *Installer) helmInstallOrUpgradeRabbitMQ(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: rabbitmqRepoName, URL: rabbitmqRepoURL}

	err := r.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add bitnami repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     rabbitmqRelease,
		ChartName:       rabbitmqChartName,
		Namespace:       rabbitmqNamespace,
		RepoURL:         rabbitmqRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		Timeout:         r.timeout,
		SetValues:       r.rabbitmqValues(),
	}

	_, err = r.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install rabbitmq chart: %w", err)
	}

	return nil
}

func (r *Installer) rabbitmqValues() map[string]string {
	values := map[string]string{
		"fullnameOverride": rabbitmqRelease,
	}

	if r.spec.Username != "" {
		values["auth.username"] = r.spec.Username
	}

	if r.spec.Password != "" {
		values["auth.password"] = r.spec.Password
	}

	return values
}

func (r *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{Kind: readiness.KindStatefulSet, Namespace: rabbitmqNamespace, Name: rabbitmqRelease},
	}

	err := shared.WaitForResourceReadiness(
		ctx, r.kubeconfig, r.kubecontext, checks, r.timeout, "rabbitmq",
	)
	if err != nil {
		return fmt.Errorf("wait for rabbitmq readiness: %w", err)
	}

	return nil
}

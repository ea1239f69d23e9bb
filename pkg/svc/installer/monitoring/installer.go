// Package monitoringinstaller installs the kube-prometheus-stack chart
// (Prometheus, Alertmanager and Grafana).
package monitoringinstaller

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
	monitoringRepoName  = "prometheus-community"
	monitoringRepoURL   = "https://prometheus-community.github.io/helm-charts"
	monitoringRelease   = "monitoring"
	monitoringNamespace = "monitoring"
	monitoringChartName = "prometheus-community/kube-prometheus-stack"
)

// Installer installs or upgrades the monitoring stack.
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.MonitoringSpec

	waitForReadiness func(ctx context.Context) error
}

// NewInstaller creates a new monitoring stack installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.MonitoringSpec,
) *Installer {
	if spec.GrafanaServiceType == "" {
		spec.GrafanaServiceType = v1alpha1.DefaultGrafanaServiceType
	}

	monitoringInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	monitoringInstaller.waitForReadiness = monitoringInstaller.defaultWaitForReadiness

	return monitoringInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (m *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = m.defaultWaitForReadiness
	}

	m.waitForReadiness = waitFunc
}

// Install installs or upgrades kube-prometheus-stack via its Helm chart.
func (m *Installer) Install(ctx context.Context) error {
	err := m.helmInstallOrUpgradeMonitoring(ctx)
	if err != nil {
		return fmt.Errorf("failed to install monitoring stack: %w", err)
	}

	err = m.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("monitoring stack did not become ready: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for the monitoring stack.
func (m *Installer) Uninstall(ctx context.Context) error {
	err := m.client.UninstallRelease(ctx, monitoringRelease, monitoringNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall monitoring release: %w", err)
	}

	return nil
}

// --- internals ---

func (m *Installer) helmInstallOrUpgradeMonitoring(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: monitoringRepoName, URL: monitoringRepoURL}

	err := m.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add prometheus-community repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     monitoringRelease,
		ChartName:       monitoringChartName,
		Namespace:       monitoringNamespace,
		RepoURL:         monitoringRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		UpgradeCRDs:     true,
		Timeout:         m.timeout,
		SetValues:       m.monitoringValues(),
	}

	_, err = m.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install kube-prometheus-stack chart: %w", err)
	}

	return nil
}

func (m *Installer) monitoringValues() map[string]string {
	values := map[string]string{
		"grafana.enabled":      "true",
		"grafana.service.type": m.spec.GrafanaServiceType,
	}

	if m.spec.GrafanaAdminPassword != "" {
		values["grafana.adminPassword"] = m.spec.GrafanaAdminPassword
	}

	return values
}

func (m *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{
			Kind:      readiness.KindDeployment,
			Namespace: monitoringNamespace,
			Name:      monitoringRelease + "-grafana",
		},
		{
			Kind:      readiness.KindStatefulSet,
			Namespace: monitoringNamespace,
			Name:      "prometheus-" + monitoringRelease + "-kube-prometheus-prometheus",
		},
	}

	err := shared.WaitForResourceReadiness(
		ctx, m.kubeconfig, m.kubecontext, checks, m.timeout, "monitoring",
	)
	if err != nil {
		return fmt.Errorf("wait for monitoring readiness: %w", err)
	}

	return nil
}

// Package ciliuminstaller installs Cilium as the cluster CNI with kube-proxy
// replacement enabled.
package ciliuminstaller

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"k8s.io/client-go/kubernetes"
)

const (
	ciliumRepoName  = "cilium"
	ciliumRepoURL   = "https://helm.cilium.io"
	ciliumRelease   = "cilium"
	ciliumNamespace = "kube-system"
	ciliumChartName = "cilium/cilium"
)

// Installer installs or upgrades Cilium via its Helm chart.
//
// The cluster is initialized with the kube-proxy addon phase skipped, so
// Cilium runs with kubeProxyReplacement and must know the API server
// endpoint directly.
type Installer struct {
	client               helm.Interface
	kubeconfig           string
	kubecontext          string
	timeout              time.Duration
	spec                 v1alpha1.CiliumSpec
	controlPlaneEndpoint string

	newClientset     func(kubeconfig, kubecontext string) (kubernetes.Interface, error)
	waitForReadiness func(ctx context.Context) error
}

// NewInstaller creates a new Cilium installer instance.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.CiliumSpec,
	controlPlaneEndpoint string,
) *Installer {
	ciliumInstaller := &Installer{
		client:               client,
		kubeconfig:           kubeconfig,
		kubecontext:          kubecontext,
		timeout:              timeout,
		spec:                 spec,
		controlPlaneEndpoint: controlPlaneEndpoint,
		newClientset: func(kubeconfig, kubecontext string) (kubernetes.Interface, error) {
			return k8s.NewClientset(kubeconfig, kubecontext)
		},
	}
	ciliumInstaller.waitForReadiness = ciliumInstaller.defaultWaitForReadiness

	return ciliumInstaller
}

// SetClientsetFactory overrides how the kubernetes client used for readiness
// waits is built. Primarily used for testing.
func (c *Installer) SetClientsetFactory(
	factory func(kubeconfig, kubecontext string) (kubernetes.Interface, error),
) {
	c.newClientset = factory
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (c *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = c.defaultWaitForReadiness
	}

	c.waitForReadiness = waitFunc
}

// Install installs or upgrades Cilium via its Helm chart, waits for the
// agent daemonset and operator to become ready, and then for a node to turn
// Ready on the new network.
func (c *Installer) Install(ctx context.Context) error {
	err := c.helmInstallOrUpgradeCilium(ctx)
	if err != nil {
		return fmt.Errorf("failed to install cilium: %w", err)
	}

	err = c.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("cilium did not become ready: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Cilium.
func (c *Installer) Uninstall(ctx context.Context) error {
	err := c.client.UninstallRelease(ctx, ciliumRelease, ciliumNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall cilium release: %w", err)
	}

	return nil
}

// --- internals ---

func (c *Installer) helmInstallOrUpgradeCilium(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: ciliumRepoName, URL: ciliumRepoURL}

	err := c.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add cilium repository: %w", err)
	}

	values, err := c.ciliumValues()
	if err != nil {
		return err
	}

	spec := &helm.ChartSpec{
		ReleaseName:     ciliumRelease,
		ChartName:       ciliumChartName,
		Namespace:       ciliumNamespace,
		Version:         c.spec.Version,
		RepoURL:         ciliumRepoURL,
		CreateNamespace: false,
		Wait:            true,
		WaitForJobs:     true,
		Timeout:         c.timeout,
		SetValues:       values,
	}

	_, err = c.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install cilium chart: %w", err)
	}

	return nil
}

// ciliumValues builds the Helm values for kube-proxy replacement mode. The
// agent needs the API server host and port because no kube-proxy rules exist
// to reach the in-cluster service address.
func (c *Installer) ciliumValues() (map[string]string, error) {
	host, port, err := net.SplitHostPort(c.controlPlaneEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid control plane endpoint %q: %w", c.controlPlaneEndpoint, err)
	}

	return map[string]string{
		"kubeProxyReplacement": "true",
		"k8sServiceHost":       host,
		"k8sServicePort":       port,
		"ipam.mode":            "kubernetes",
		"operator.replicas":    "1",
	}, nil
}

func (c *Installer) defaultWaitForReadiness(ctx context.Context) error {
	clientset, err := c.newClientset(c.kubeconfig, c.kubecontext)
	if err != nil {
		return fmt.Errorf("create kubernetes client: %w", err)
	}

	checks := []readiness.Check{
		{Kind: readiness.KindDaemonSet, Namespace: ciliumNamespace, Name: "cilium"},
		{Kind: readiness.KindDeployment, Namespace: ciliumNamespace, Name: "cilium-operator"},
	}

	err = readiness.WaitForResources(ctx, clientset, checks, c.timeout)
	if err != nil {
		return fmt.Errorf("wait for cilium workloads: %w", err)
	}

	// With kube-proxy replacement the agent workloads alone do not prove the
	// CNI carries traffic; nodes leave NotReady only once it does.
	err = readiness.WaitForNodeReady(ctx, clientset, c.timeout)
	if err != nil {
		return fmt.Errorf("wait for node readiness: %w", err)
	}

	return nil
}

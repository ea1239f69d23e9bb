// Package metallbinstaller installs MetalLB and configures its address pool.
package metallbinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"github.com/homelab-dev/homelab/pkg/svc/installer/shared"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

const (
	metallbRepoName  = "metallb"
	metallbRepoURL   = "https://metallb.github.io/metallb"
	metallbRelease   = "metallb"
	metallbNamespace = "metallb-system"
	metallbChartName = "metallb/metallb"

	addressPoolName     = "default-pool"
	l2AdvertisementName = "default-l2-advert"
)

// Installer installs or upgrades MetalLB.
//
// MetalLB provides the LoadBalancer implementation for bare-metal clusters.
// It allocates addresses from the configured pool and announces them via
// Layer 2 (ARP).
type Installer struct {
	client      helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
	spec        v1alpha1.MetalLBSpec

	waitForReadiness func(ctx context.Context) error
	newDynamicClient func() (dynamic.Interface, error)
}

// NewInstaller creates a new MetalLB installer instance. An empty address
// pool falls back to the configuration default.
func NewInstaller(
	client helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
	spec v1alpha1.MetalLBSpec,
) *Installer {
	if spec.AddressPool == "" {
		spec.AddressPool = v1alpha1.DefaultMetalLBAddressPool
	}

	metallbInstaller := &Installer{
		client:      client,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
		spec:        spec,
	}
	metallbInstaller.waitForReadiness = metallbInstaller.defaultWaitForReadiness
	metallbInstaller.newDynamicClient = func() (dynamic.Interface, error) {
		return k8s.NewDynamicClient(kubeconfig, kubecontext)
	}

	return metallbInstaller
}

// SetWaitForReadinessFunc overrides the readiness wait function. Primarily
// used for testing. Passing nil restores the default.
func (m *Installer) SetWaitForReadinessFunc(waitFunc func(context.Context) error) {
	if waitFunc == nil {
		waitFunc = m.defaultWaitForReadiness
	}

	m.waitForReadiness = waitFunc
}

// SetDynamicClientFactory overrides how the dynamic client is constructed.
// Primarily used for testing.
func (m *Installer) SetDynamicClientFactory(factory func() (dynamic.Interface, error)) {
	m.newDynamicClient = factory
}

// Install installs or upgrades MetalLB via its Helm chart, waits for the
// controller webhook to come up, then applies the IPAddressPool and
// L2Advertisement resources.
func (m *Installer) Install(ctx context.Context) error {
	err := m.helmInstallOrUpgradeMetalLB(ctx)
	if err != nil {
		return fmt.Errorf("failed to install metallb: %w", err)
	}

	// The IPAddressPool webhook is served by the controller; applying the
	// pool before it is ready gets rejected with a connection error.
	err = m.waitForReadiness(ctx)
	if err != nil {
		return fmt.Errorf("metallb did not become ready: %w", err)
	}

	err = m.configureMetalLB(ctx)
	if err != nil {
		return fmt.Errorf("failed to configure metallb: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for MetalLB.
func (m *Installer) Uninstall(ctx context.Context) error {
	err := m.client.UninstallRelease(ctx, metallbRelease, metallbNamespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall metallb release: %w", err)
	}

	return nil
}

// --- internals ---

func (m *Installer) helmInstallOrUpgradeMetalLB(ctx context.Context) error {
	repoEntry := &helm.RepositoryEntry{Name: metallbRepoName, URL: metallbRepoURL}

	err := m.client.AddRepository(ctx, repoEntry)
	if err != nil {
		return fmt.Errorf("failed to add metallb repository: %w", err)
	}

	spec := &helm.ChartSpec{
		ReleaseName:     metallbRelease,
		ChartName:       metallbChartName,
		Namespace:       metallbNamespace,
		RepoURL:         metallbRepoURL,
		CreateNamespace: true,
		Wait:            true,
		WaitForJobs:     true,
		Timeout:         m.timeout,
	}

	_, err = m.client.InstallOrUpgradeChart(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to install metallb chart: %w", err)
	}

	return nil
}

// configureMetalLB creates the IPAddressPool and L2Advertisement resources
// that tell MetalLB which addresses to hand out and how to announce them.
func (m *Installer) configureMetalLB(ctx context.Context) error {
	dynamicClient, err := m.newDynamicClient()
	if err != nil {
		return fmt.Errorf("failed to create dynamic client: %w", err)
	}

	err = m.createIPAddressPool(ctx, dynamicClient)
	if err != nil {
		return fmt.Errorf("failed to create ip address pool: %w", err)
	}

	err = m.createL2Advertisement(ctx, dynamicClient)
	if err != nil {
		return fmt.Errorf("failed to create l2 advertisement: %w", err)
	}

	return nil
}

func (m *Installer) createIPAddressPool(
	ctx context.Context,
	dynamicClient dynamic.Interface,
) error {
	ipAddressPoolGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "ipaddresspools",
	}

	ipPool := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "metallb.io/v1beta1",
			"kind":       "IPAddressPool",
			"metadata": map[string]any{
				"name":      addressPoolName,
				"namespace": metallbNamespace,
			},
			"spec": map[string]any{
				"addresses": []any{
					m.spec.AddressPool,
				},
			},
		},
	}

	_, err := dynamicClient.Resource(ipAddressPoolGVR).Namespace(metallbNamespace).
		Create(ctx, ipPool, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create IPAddressPool: %w", err)
	}

	return nil
}

func (m *Installer) createL2Advertisement(
	ctx context.Context,
	dynamicClient dynamic.Interface,
) error {
	l2AdvertisementGVR := schema.GroupVersionResource{
		Group:    "metallb.io",
		Version:  "v1beta1",
		Resource: "l2advertisements",
	}

	l2Advert := &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "metallb.io/v1beta1",
			"kind":       "L2Advertisement",
			"metadata": map[string]any{
				"name":      l2AdvertisementName,
				"namespace": metallbNamespace,
			},
			"spec": map[string]any{
				"ipAddressPools": []any{
					addressPoolName,
				},
			},
		},
	}

	_, err := dynamicClient.Resource(l2AdvertisementGVR).Namespace(metallbNamespace).
		Create(ctx, l2Advert, metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create L2Advertisement: %w", err)
	}

	return nil
}

func (m *Installer) defaultWaitForReadiness(ctx context.Context) error {
	checks := []readiness.Check{
		{Kind: readiness.KindDeployment, Namespace: metallbNamespace, Name: "metallb-controller"},
		{Kind: readiness.KindDaemonSet, Namespace: metallbNamespace, Name: "metallb-speaker"},
	}

	err := shared.WaitForResourceReadiness(
		ctx, m.kubeconfig, m.kubecontext, checks, m.timeout, "metallb",
	)
	if err != nil {
		return fmt.Errorf("wait for metallb readiness: %w", err)
	}

	return nil
}

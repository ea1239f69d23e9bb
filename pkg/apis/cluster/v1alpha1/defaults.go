package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Default values matching the reference homelab layout: one control plane,
// two workers, flannel-compatible pod CIDR and a private MetalLB pool.
const (
	// DefaultClusterName is the cluster name used when none is configured.
	DefaultClusterName = "homelab"
	// DefaultPodCIDR is the pod network CIDR handed to kubeadm.
	DefaultPodCIDR = "10.244.0.0/16"
	// DefaultServiceCIDR is the service network CIDR handed to kubeadm.
	DefaultServiceCIDR = "10.96.0.0/12"
	// DefaultMetalLBAddressPool is the LoadBalancer IP range.
	DefaultMetalLBAddressPool = "192.168.1.240-192.168.1.250"
	// DefaultConnectionTimeout bounds readiness waits and helm operations.
	DefaultConnectionTimeout = 5 * time.Minute
	// DefaultGrafanaServiceType exposes Grafana through MetalLB.
	DefaultGrafanaServiceType = "LoadBalancer"
	// DefaultPostgresDatabase is the database created for the sample apps.
	DefaultPostgresDatabase = "homelab"
	// DefaultArgoCDTargetRevision tracks the main branch.
	DefaultArgoCDTargetRevision = "main"
	// DefaultArgoCDAppsPath is the manifest directory watched by Argo CD.
	DefaultArgoCDAppsPath = "argocd/applications"
)

// SetDefaults fills unset fields with their default values. Explicitly
// configured values are never overwritten.
func (c *Cluster) SetDefaults() {
	c.TypeMeta.APIVersion = APIVersion
	c.TypeMeta.Kind = Kind

	if c.Spec.Cluster.Name == "" {
		c.Spec.Cluster.Name = DefaultClusterName
	}

	if c.Spec.Cluster.Connection.Timeout.Duration == 0 {
		c.Spec.Cluster.Connection.Timeout = metav1.Duration{Duration: DefaultConnectionTimeout}
	}

	if c.Spec.Network.PodCIDR == "" {
		c.Spec.Network.PodCIDR = DefaultPodCIDR
	}

	if c.Spec.Network.ServiceCIDR == "" {
		c.Spec.Network.ServiceCIDR = DefaultServiceCIDR
	}

	c.setComponentDefaults()
}

func (c *Cluster) setComponentDefaults() {
	components := &c.Spec.Components

	if components.MetalLB.AddressPool == "" {
		components.MetalLB.AddressPool = DefaultMetalLBAddressPool
	}

	if components.Monitoring.GrafanaServiceType == "" {
		components.Monitoring.GrafanaServiceType = DefaultGrafanaServiceType
	}

	if components.Postgres.Database == "" {
		components.Postgres.Database = DefaultPostgresDatabase
	}

	if components.Postgres.Username == "" {
		components.Postgres.Username = "postgres"
	}

	if components.RabbitMQ.Username == "" {
		components.RabbitMQ.Username = "admin"
	}

	if components.ArgoCD.TargetRevision == "" {
		components.ArgoCD.TargetRevision = DefaultArgoCDTargetRevision
	}

	if components.ArgoCD.AppsPath == "" {
		components.ArgoCD.AppsPath = DefaultArgoCDAppsPath
	}
}

// EnabledComponents returns the enabled components in canonical install order.
func (c *Cluster) EnabledComponents() []Component {
	enabled := make([]Component, 0, len(ComponentInstallOrder()))

	for _, component := range ComponentInstallOrder() {
		if c.ComponentEnabled(component) {
			enabled = append(enabled, component)
		}
	}

	return enabled
}

// ComponentEnabled reports whether the named component is enabled.
func (c *Cluster) ComponentEnabled(component Component) bool {
	components := c.Spec.Components

	switch component {
	case ComponentCilium:
		return components.Cilium.Enabled
	case ComponentMetalLB:
		return components.MetalLB.Enabled
	case ComponentMonitoring:
		return components.Monitoring.Enabled
	case ComponentPostgres:
		return components.Postgres.Enabled
	case ComponentRedis:
		return components.Redis.Enabled
	case ComponentRabbitMQ:
		return components.RabbitMQ.Enabled
	case ComponentArgoCD:
		return components.ArgoCD.Enabled
	default:
		return false
	}
}

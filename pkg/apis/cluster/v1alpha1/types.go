package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// Group is the API group for homelab configuration documents.
	Group = "homelab.dev"
	// Version is the API version for homelab configuration documents.
	Version = "v1alpha1"
	// Kind is the kind for homelab cluster configurations.
	Kind = "Cluster"
	// APIVersion is the full API version for homelab configuration documents.
	APIVersion = Group + "/" + Version
)

// Cluster is the homelab cluster configuration document. It carries TypeMeta
// for API versioning and the desired state of the cluster and its component
// stack.
type Cluster struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Spec Spec `json:"spec,omitzero" mapstructure:"spec,omitempty"`
}

// Spec defines the desired state of a homelab cluster.
type Spec struct {
	Cluster    ClusterSpec    `json:"cluster,omitzero"`
	Network    NetworkSpec    `json:"network,omitzero"`
	Nodes      []Node         `json:"nodes,omitzero"`
	Components ComponentsSpec `json:"components,omitzero"`
}

// ClusterSpec defines cluster-wide configuration.
type ClusterSpec struct {
	Name              string     `json:"name,omitzero"`
	KubernetesVersion string     `json:"kubernetesVersion,omitzero"`
	Connection        Connection `json:"connection,omitzero"`

	// UntaintControlPlane removes the control-plane NoSchedule taint after
	// init so workloads can run on the control-plane node. Small homelabs
	// commonly enable this to reclaim the master's capacity.
	UntaintControlPlane bool `json:"untaintControlPlane,omitzero"`
}

// Connection defines how the CLI reaches the cluster API.
type Connection struct {
	Kubeconfig string          `json:"kubeconfig,omitzero"`
	Context    string          `json:"context,omitzero"`
	Timeout    metav1.Duration `json:"timeout,omitzero"`
}

// NetworkSpec defines the cluster networking parameters handed to kubeadm.
type NetworkSpec struct {
	PodCIDR              string `json:"podCIDR,omitzero"`
	ServiceCIDR          string `json:"serviceCIDR,omitzero"`
	ControlPlaneEndpoint string `json:"controlPlaneEndpoint,omitzero"`
}

// Node describes one machine participating in the cluster.
type Node struct {
	Name    string   `json:"name,omitzero"`
	Role    NodeRole `json:"role,omitzero"`
	Address string   `json:"address,omitzero"`
}

// ComponentsSpec toggles and configures the component stack installed on top
// of the bootstrapped cluster.
type ComponentsSpec struct {
	Cilium     CiliumSpec     `json:"cilium,omitzero"`
	MetalLB    MetalLBSpec    `json:"metallb,omitzero"`
	Monitoring MonitoringSpec `json:"monitoring,omitzero"`
	Postgres   PostgresSpec   `json:"postgres,omitzero"`
	Redis      RedisSpec      `json:"redis,omitzero"`
	RabbitMQ   RabbitMQSpec   `json:"rabbitmq,omitzero"`
	ArgoCD     ArgoCDSpec     `json:"argocd,omitzero"`
}

// CiliumSpec configures the Cilium CNI installation.
type CiliumSpec struct {
	Enabled bool   `json:"enabled,omitzero"`
	Version string `json:"version,omitzero"`
}

// MetalLBSpec configures the MetalLB LoadBalancer installation.
type MetalLBSpec struct {
	Enabled bool `json:"enabled,omitzero"`

	// AddressPool is the IP range MetalLB hands out to LoadBalancer
	// services, e.g. "192.168.1.240-192.168.1.250".
	AddressPool string `json:"addressPool,omitzero"`
}

// MonitoringSpec configures the kube-prometheus-stack installation.
type MonitoringSpec struct {
	Enabled              bool   `json:"enabled,omitzero"`
	GrafanaAdminPassword string `json:"grafanaAdminPassword,omitzero"`

	// GrafanaServiceType controls how Grafana is exposed. LoadBalancer
	// requires MetalLB to be enabled.
	GrafanaServiceType string `json:"grafanaServiceType,omitzero"`
}

// PostgresSpec configures the PostgreSQL installation.
type PostgresSpec struct {
	Enabled  bool   `json:"enabled,omitzero"`
	Database string `json:"database,omitzero"`
	Username string `json:"username,omitzero"`
	Password string `json:"password,omitzero"`
}

// RedisSpec configures the Redis installation.
type RedisSpec struct {
	Enabled  bool   `json:"enabled,omitzero"`
	Password string `json:"password,omitzero"`
}

// RabbitMQSpec configures the RabbitMQ installation.
type RabbitMQSpec struct {
	Enabled  bool   `json:"enabled,omitzero"`
	Username string `json:"username,omitzero"`
	Password string `json:"password,omitzero"`
}

// ArgoCDSpec configures the Argo CD installation and the GitOps wiring for
// the sample applications.
type ArgoCDSpec struct {
	Enabled bool `json:"enabled,omitzero"`

	// RepoURL is the Git repository Argo CD Applications point at.
	RepoURL string `json:"repoURL,omitzero"`
	// TargetRevision is the Git revision tracked by the Applications.
	TargetRevision string `json:"targetRevision,omitzero"`
	// AppsPath is the repository path containing the application manifests.
	AppsPath string `json:"appsPath,omitzero"`
}

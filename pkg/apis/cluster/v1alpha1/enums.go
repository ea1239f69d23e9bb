package v1alpha1

// NodeRole identifies the function of a node in the cluster.
type NodeRole string

// Supported node roles.
const (
	// NodeRoleControlPlane marks a node that runs the Kubernetes control plane.
	NodeRoleControlPlane NodeRole = "control-plane"
	// NodeRoleWorker marks a node that only runs workloads.
	NodeRoleWorker NodeRole = "worker"
)

// IsValid reports whether the role is one of the supported values.
func (r NodeRole) IsValid() bool {
	switch r {
	case NodeRoleControlPlane, NodeRoleWorker:
		return true
	default:
		return false
	}
}

// Component identifies one installable component of the homelab stack.
type Component string

// Components of the homelab stack, in canonical install order.
const (
	ComponentCilium     Component = "cilium"
	ComponentMetalLB    Component = "metallb"
	ComponentMonitoring Component = "monitoring"
	ComponentPostgres   Component = "postgres"
	ComponentRedis      Component = "redis"
	ComponentRabbitMQ   Component = "rabbitmq"
	ComponentArgoCD     Component = "argocd"
)

// ComponentInstallOrder is the fixed deployment order of the stack. The CNI
// comes first so the cluster network is functional, the LoadBalancer second
// so later components can expose LoadBalancer services, and the GitOps
// controller last so it reconciles against a fully provisioned cluster.
func ComponentInstallOrder() []Component {
	return []Component{
		ComponentCilium,
		ComponentMetalLB,
		ComponentMonitoring,
		ComponentPostgres,
		ComponentRedis,
		ComponentRabbitMQ,
		ComponentArgoCD,
	}
}

// ParseComponent converts a user-supplied string into a Component.
func ParseComponent(value string) (Component, error) {
	component := Component(value)
	for _, known := range ComponentInstallOrder() {
		if component == known {
			return component, nil
		}
	}

	return "", ErrUnknownComponent
}

package installer

import "github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"

// ReleaseCoordinates locates a component's helm release.
type ReleaseCoordinates struct {
	ReleaseName string
	Namespace   string
}

// Release names and namespaces must match what the component installers
// deploy.
var releaseCoordinates = map[v1alpha1.Component]ReleaseCoordinates{
	v1alpha1.ComponentCilium:     {ReleaseName: "cilium", Namespace: "kube-system"},
	v1alpha1.ComponentMetalLB:    {ReleaseName: "metallb", Namespace: "metallb-system"},
	v1alpha1.ComponentMonitoring: {ReleaseName: "monitoring", Namespace: "monitoring"},
	v1alpha1.ComponentPostgres:   {ReleaseName: "postgresql", Namespace: "data"},
	v1alpha1.ComponentRedis:      {ReleaseName: "redis", Namespace: "data"},
	v1alpha1.ComponentRabbitMQ:   {ReleaseName: "rabbitmq", Namespace: "data"},
	v1alpha1.ComponentArgoCD:     {ReleaseName: "argocd", Namespace: "argocd"},
}

// ReleaseFor returns the helm release coordinates of a component.
func ReleaseFor(component v1alpha1.Component) (ReleaseCoordinates, bool) {
	coordinates, found := releaseCoordinates[component]

	return coordinates, found
}

package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

// NewCluster creates a Cluster configuration with defaults applied.
func NewCluster() *Cluster {
	cluster := &Cluster{
		TypeMeta: metav1.TypeMeta{
			APIVersion: APIVersion,
			Kind:       Kind,
		},
	}
	cluster.SetDefaults()

	return cluster
}

// ControlPlaneNodes returns the configured control-plane nodes.
func (c *Cluster) ControlPlaneNodes() []Node {
	return c.nodesWithRole(NodeRoleControlPlane)
}

// WorkerNodes returns the configured worker nodes.
func (c *Cluster) WorkerNodes() []Node {
	return c.nodesWithRole(NodeRoleWorker)
}

func (c *Cluster) nodesWithRole(role NodeRole) []Node {
	var nodes []Node

	for _, node := range c.Spec.Nodes {
		if node.Role == role {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

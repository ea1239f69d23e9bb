package kubeadm

import (
	"fmt"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"sigs.k8s.io/yaml"
)

const kubeadmAPIVersion = "kubeadm.k8s.io/v1beta3"

// initConfiguration mirrors the subset of kubeadm's InitConfiguration the
// homelab needs. Rendering our own types keeps the dependency surface small;
// kubeadm validates the full document itself.
type initConfiguration struct {
	APIVersion       string           `json:"apiVersion"`
	Kind             string           `json:"kind"`
	NodeRegistration nodeRegistration `json:"nodeRegistration,omitempty"`
	SkipPhases       []string         `json:"skipPhases,omitempty"`
}

type nodeRegistration struct {
	KubeletExtraArgs map[string]string `json:"kubeletExtraArgs,omitempty"`
}

type clusterConfiguration struct {
	APIVersion           string     `json:"apiVersion"`
	Kind                 string     `json:"kind"`
	ClusterName          string     `json:"clusterName,omitempty"`
	KubernetesVersion    string     `json:"kubernetesVersion,omitempty"`
	ControlPlaneEndpoint string     `json:"controlPlaneEndpoint,omitempty"`
	Networking           networking `json:"networking"`
}

type networking struct {
	PodSubnet     string `json:"podSubnet"`
	ServiceSubnet string `json:"serviceSubnet"`
}

// RenderInitConfig produces the multi-document kubeadm configuration for
// `kubeadm init --config`. When Cilium is enabled the kube-proxy addon phase
// is skipped, since Cilium runs with kube-proxy replacement.
func RenderInitConfig(cluster *v1alpha1.Cluster) ([]byte, error) {
	initCfg := initConfiguration{
		APIVersion: kubeadmAPIVersion,
		Kind:       "InitConfiguration",
	}

	if cluster.Spec.Components.Cilium.Enabled {
		initCfg.SkipPhases = []string{"addon/kube-proxy"}
	}

	clusterCfg := clusterConfiguration{
		APIVersion:           kubeadmAPIVersion,
		Kind:                 "ClusterConfiguration",
		ClusterName:          cluster.Spec.Cluster.Name,
		KubernetesVersion:    cluster.Spec.Cluster.KubernetesVersion,
		ControlPlaneEndpoint: cluster.Spec.Network.ControlPlaneEndpoint,
		Networking: networking{
			PodSubnet:     cluster.Spec.Network.PodCIDR,
			ServiceSubnet: cluster.Spec.Network.ServiceCIDR,
		},
	}

	initDoc, err := yaml.Marshal(initCfg)
	if err != nil {
		return nil, fmt.Errorf("marshal init configuration: %w", err)
	}

	clusterDoc, err := yaml.Marshal(clusterCfg)
	if err != nil {
		return nil, fmt.Errorf("marshal cluster configuration: %w", err)
	}

	document := append(initDoc, []byte("---\n")...)
	document = append(document, clusterDoc...)

	return document, nil
}

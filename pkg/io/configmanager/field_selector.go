package configmanager

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/k8s"
)

// FieldSelector binds one configuration field to a CLI flag and an optional
// default value.
//
// Selector must return a pointer into the configuration struct so that flag
// overrides and defaults can be written back in place.
type FieldSelector[T any] struct {
	// Selector returns a pointer to the field inside the configuration.
	Selector func(config *T) any
	// FlagName is the CLI flag bound to the field. Empty means the field
	// has no flag and is only settable via file or environment.
	FlagName string
	// Description documents the flag in --help output.
	Description string
	// DefaultValue fills the field when neither file, environment nor flag
	// set it. Nil means no selector-level default.
	DefaultValue any
}

// KubeconfigFieldSelector binds spec.cluster.connection.kubeconfig to the
// --kubeconfig flag.
func KubeconfigFieldSelector() FieldSelector[v1alpha1.Cluster] {
	return FieldSelector[v1alpha1.Cluster]{
		Selector: func(config *v1alpha1.Cluster) any {
			return &config.Spec.Cluster.Connection.Kubeconfig
		},
		FlagName:     "kubeconfig",
		Description:  "Path to the kubeconfig file",
		DefaultValue: k8s.DefaultKubeconfigPath(),
	}
}

// ContextFieldSelector binds spec.cluster.connection.context to the
// --context flag.
func ContextFieldSelector() FieldSelector[v1alpha1.Cluster] {
	return FieldSelector[v1alpha1.Cluster]{
		Selector: func(config *v1alpha1.Cluster) any {
			return &config.Spec.Cluster.Connection.Context
		},
		FlagName:    "context",
		Description: "Kubeconfig context to use (empty uses the current context)",
	}
}

// TimeoutFieldSelector binds spec.cluster.connection.timeout to the
// --timeout flag.
func TimeoutFieldSelector() FieldSelector[v1alpha1.Cluster] {
	return FieldSelector[v1alpha1.Cluster]{
		Selector: func(config *v1alpha1.Cluster) any {
			return &config.Spec.Cluster.Connection.Timeout
		},
		FlagName:     "timeout",
		Description:  "Timeout for readiness waits and Helm operations",
		DefaultValue: metav1.Duration{Duration: v1alpha1.DefaultConnectionTimeout},
	}
}

// DefaultClusterFieldSelectors returns the selectors shared by every command
// that talks to the cluster.
func DefaultClusterFieldSelectors() []FieldSelector[v1alpha1.Cluster] {
	return []FieldSelector[v1alpha1.Cluster]{
		KubeconfigFieldSelector(),
		ContextFieldSelector(),
		TimeoutFieldSelector(),
	}
}

// Package bootstrap defines the interface for standing up cluster nodes.
package bootstrap

import "context"

// InitResult captures the outcome of initializing a control-plane node.
type InitResult struct {
	// JoinCommand is the full `kubeadm join ...` invocation workers run to
	// enter the cluster.
	JoinCommand string
	// KubeconfigPath is the admin kubeconfig written by kubeadm.
	KubeconfigPath string
}

// JoinRequest carries the parameters a worker needs to join the cluster.
type JoinRequest struct {
	// Endpoint is the control-plane address, host:port.
	Endpoint string
	// Token is the bootstrap token, in the form abcdef.0123456789abcdef.
	Token string
	// CACertHash is the discovery token CA cert hash, sha256:<hex>.
	CACertHash string
}

// Bootstrapper manages the node-local lifecycle of a cluster. Implementations
// run on the node they act upon, mirroring how kubeadm itself operates.
type Bootstrapper interface {
	// Init initializes the control-plane on this node and reports the join
	// command for workers.
	Init(ctx context.Context) (*InitResult, error)

	// Join adds this node to an existing cluster as a worker.
	Join(ctx context.Context, request JoinRequest) error

	// JoinCommand creates a fresh bootstrap token and returns the full join
	// command for workers.
	JoinCommand(ctx context.Context) (string, error)

	// Reset tears down the cluster state on this node.
	Reset(ctx context.Context) error
}

// Package kubeadm bootstraps cluster nodes by driving the kubeadm CLI.
package kubeadm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	// AdminKubeconfigPath is where kubeadm writes the admin credentials.
	AdminKubeconfigPath = "/etc/kubernetes/admin.conf"

	controlPlaneTaintKey = "node-role.kubernetes.io/control-plane"

	configFileMode = 0o600

	// apiServerStableSuccesses is how many consecutive API server responses
	// init requires before trusting the control plane, since the server
	// flaps while static pods restart right after kubeadm init.
	apiServerStableSuccesses = 3
)

var (
	// ErrInvalidToken is returned when a join token does not match the
	// kubeadm bootstrap token format.
	ErrInvalidToken = errors.New("invalid bootstrap token format")
	// ErrInvalidCACertHash is returned when the discovery hash is malformed.
	ErrInvalidCACertHash = errors.New("invalid discovery token CA cert hash")
	// ErrJoinCommandNotFound is returned when kubeadm output contains no
	// join command.
	ErrJoinCommandNotFound = errors.New("join command not found in kubeadm output")

	tokenPattern      = regexp.MustCompile(`^[a-z0-9]{6}\.[a-z0-9]{16}$`)
	caCertHashPattern = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)
	joinCmdPattern    = regexp.MustCompile(`kubeadm join[^\n\\]*(?:\\\s*\n[^\n\\]*)*`)
)

// Bootstrapper drives kubeadm on the local node.
type Bootstrapper struct {
	cluster   *v1alpha1.Cluster
	runner    exec.CommandRunner
	writer    io.Writer
	configDir string

	// newClientset, preflightFn and waitForAPIServer are swapped by tests
	// to avoid contacting a real API server or probing the host.
	newClientset     func(kubeconfig, context string) (kubernetes.Interface, error)
	preflightFn      func(ctx context.Context, runner exec.CommandRunner) ([]PreflightResult, error)
	waitForAPIServer func(
		ctx context.Context,
		clientset kubernetes.Interface,
		timeout time.Duration,
	) error
}

var _ bootstrap.Bootstrapper = (*Bootstrapper)(nil)

// NewBootstrapper creates a kubeadm bootstrapper for the given cluster
// configuration. Output from kubeadm is mirrored to writer.
func NewBootstrapper(
	cluster *v1alpha1.Cluster,
	runner exec.CommandRunner,
	writer io.Writer,
) *Bootstrapper {
	return &Bootstrapper{
		cluster:   cluster,
		runner:    runner,
		writer:    writer,
		configDir: os.TempDir(),
		newClientset: func(kubeconfig, context string) (kubernetes.Interface, error) {
			return k8s.NewClientset(kubeconfig, context)
		},
		preflightFn: RunPreflight,
		waitForAPIServer: func(
			ctx context.Context,
			clientset kubernetes.Interface,
			timeout time.Duration,
		) error {
			return readiness.WaitForAPIServerStable(
				ctx, clientset, timeout, apiServerStableSuccesses,
			)
		},
	}
}

// Init initializes the control plane on this node: preflight checks, config
// rendering, `kubeadm init`, API server wait, and optional control-plane
// untainting.
func (b *Bootstrapper) Init(ctx context.Context) (*bootstrap.InitResult, error) {
	err := b.preflight(ctx)
	if err != nil {
		return nil, err
	}

	configPath, err := b.writeInitConfig()
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(configPath) }()

	notify.Activityf(b.writer, "running kubeadm init")

	result, err := b.runner.Run(ctx, "kubeadm", "init", "--config", configPath)
	if err != nil {
		return nil, fmt.Errorf("kubeadm init failed: %w\n%s", err, strings.TrimSpace(result.Stderr))
	}

	notify.Activityf(b.writer, "waiting for the API server to stabilize")

	clientset, err := b.newClientset(AdminKubeconfigPath, "")
	if err != nil {
		return nil, fmt.Errorf("connect to new cluster: %w", err)
	}

	timeout := b.cluster.Spec.Cluster.Connection.Timeout.Duration

	err = b.waitForAPIServer(ctx, clientset, timeout)
	if err != nil {
		return nil, fmt.Errorf("API server did not become ready: %w", err)
	}

	if b.cluster.Spec.Cluster.UntaintControlPlane {
		err = b.untaintControlPlane(ctx, clientset)
		if err != nil {
			return nil, err
		}
	}

	joinCommand := joinCmdPattern.FindString(result.Stdout)
	if joinCommand == "" {
		// Older kubeadm versions print the join command to stderr.
		joinCommand = joinCmdPattern.FindString(result.Stderr)
	}

	if joinCommand == "" {
		return nil, ErrJoinCommandNotFound
	}

	return &bootstrap.InitResult{
		JoinCommand:    normalizeJoinCommand(joinCommand),
		KubeconfigPath: AdminKubeconfigPath,
	}, nil
}

// Join adds this node to the cluster as a worker.
func (b *Bootstrapper) Join(ctx context.Context, request bootstrap.JoinRequest) error {
	if !tokenPattern.MatchString(request.Token) {
		return fmt.Errorf("%w: %q", ErrInvalidToken, request.Token)
	}

	if !caCertHashPattern.MatchString(request.CACertHash) {
		return fmt.Errorf("%w: %q", ErrInvalidCACertHash, request.CACertHash)
	}

	err := b.preflight(ctx)
	if err != nil {
		return err
	}

	notify.Activityf(b.writer, "running kubeadm join against %s", request.Endpoint)

	result, err := b.runner.Run(ctx, "kubeadm", "join", request.Endpoint,
		"--token", request.Token,
		"--discovery-token-ca-cert-hash", request.CACertHash,
	)
	if err != nil {
		return fmt.Errorf("kubeadm join failed: %w\n%s", err, strings.TrimSpace(result.Stderr))
	}

	return nil
}

// JoinCommand creates a fresh bootstrap token and returns the join command.
func (b *Bootstrapper) JoinCommand(ctx context.Context) (string, error) {
	result, err := b.runner.Run(ctx, "kubeadm", "token", "create", "--print-join-command")
	if err != nil {
		return "", fmt.Errorf(
			"kubeadm token create failed: %w\n%s", err, strings.TrimSpace(result.Stderr),
		)
	}

	joinCommand := strings.TrimSpace(result.Stdout)
	if joinCommand == "" {
		return "", ErrJoinCommandNotFound
	}

	return joinCommand, nil
}

// Reset tears down the kubeadm-managed state on this node. CNI interfaces
// and iptables rules survive a reset, so a warning points at the manual
// cleanup.
func (b *Bootstrapper) Reset(ctx context.Context) error {
	result, err := b.runner.Run(ctx, "kubeadm", "reset", "--force")
	if err != nil {
		return fmt.Errorf("kubeadm reset failed: %w\n%s", err, strings.TrimSpace(result.Stderr))
	}

	notify.Warningf(b.writer,
		"kubeadm reset does not clean CNI state; remove /etc/cni/net.d and reboot "+
			"or flush iptables before re-initializing")

	return nil
}

// --- internals ---

func (b *Bootstrapper) preflight(ctx context.Context) error {
	results, err := b.preflightFn(ctx, b.runner)

	for _, check := range results {
		if check.Passed {
			continue
		}

		notify.Warningf(b.writer, "preflight: %s: %s", check.Name, check.Message)
	}

	if err != nil {
		return fmt.Errorf("node is not ready for kubeadm: %w", err)
	}

	return nil
}

func (b *Bootstrapper) writeInitConfig() (string, error) {
	document, err := RenderInitConfig(b.cluster)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(b.configDir, "kubeadm-init.yaml")

	err = os.WriteFile(configPath, document, configFileMode)
	if err != nil {
		return "", fmt.Errorf("write kubeadm config: %w", err)
	}

	return configPath, nil
}

// untaintControlPlane removes the NoSchedule taint so workloads can run on
// the control-plane node.
func (b *Bootstrapper) untaintControlPlane(
	ctx context.Context,
	clientset kubernetes.Interface,
) error {
	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{
		LabelSelector: controlPlaneTaintKey,
	})
	if err != nil {
		return fmt.Errorf("list control-plane nodes: %w", err)
	}

	for i := range nodes.Items {
		node := &nodes.Items[i]

		kept := make([]corev1.Taint, 0, len(node.Spec.Taints))

		for _, taint := range node.Spec.Taints {
			if taint.Key != controlPlaneTaintKey {
				kept = append(kept, taint)
			}
		}

		if len(kept) == len(node.Spec.Taints) {
			continue
		}

		node.Spec.Taints = kept

		_, err = clientset.CoreV1().Nodes().Update(ctx, node, metav1.UpdateOptions{})
		if err != nil {
			return fmt.Errorf("untaint node %q: %w", node.Name, err)
		}

		notify.Infof(b.writer, "removed control-plane taint from node %q", node.Name)
	}

	return nil
}

// normalizeJoinCommand collapses kubeadm's line-continuation formatting into
// a single line.
func normalizeJoinCommand(joinCommand string) string {
	joined := strings.ReplaceAll(joinCommand, "\\\n", " ")

	return strings.Join(strings.Fields(joined), " ")
}

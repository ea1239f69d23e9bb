package cluster

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
)

var errBootstrap = errors.New("bootstrap failed")

// stubBootstrapper records calls and returns canned results.
type stubBootstrapper struct {
	initResult     *bootstrap.InitResult
	initErr        error
	joinRequest    bootstrap.JoinRequest
	joinErr        error
	joinCommand    string
	joinCommandErr error
	resetCalled    bool
	resetErr       error
}

func (s *stubBootstrapper) Init(context.Context) (*bootstrap.InitResult, error) {
	return s.initResult, s.initErr
}

func (s *stubBootstrapper) Join(_ context.Context, request bootstrap.JoinRequest) error {
	s.joinRequest = request

	return s.joinErr
}

func (s *stubBootstrapper) JoinCommand(context.Context) (string, error) {
	return s.joinCommand, s.joinCommandErr
}

func (s *stubBootstrapper) Reset(context.Context) error {
	s.resetCalled = true

	return s.resetErr
}

func newTestRuntime(stub *stubBootstrapper) *di.Runtime {
	return di.New(func(injector di.Injector) error {
		do.Provide(injector, func(di.Injector) (timer.Timer, error) {
			return timer.New(), nil
		})
		do.Provide(injector, func(di.Injector) (exec.CommandRunner, error) {
			return exec.NewHostCommandRunner(io.Discard, io.Discard), nil
		})
		do.Provide(injector, func(di.Injector) (di.BootstrapperFactory, error) {
			return func(
				*v1alpha1.Cluster,
				exec.CommandRunner,
				io.Writer,
			) bootstrap.Bootstrapper {
				return stub
			}, nil
		})

		return nil
	})
}

// isolate keeps tests away from real config files and kubeconfigs.
func isolate(t *testing.T) {
	t.Helper()

	scratch := t.TempDir()
	t.Chdir(scratch)
	t.Setenv("HOME", scratch)
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var output bytes.Buffer

	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return output.String(), err
}

func TestInitCmd_Success(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{
		initResult: &bootstrap.InitResult{
			JoinCommand:    "kubeadm join 192.168.1.100:6443 --token abc.def",
			KubeconfigPath: "/etc/kubernetes/admin.conf",
		},
	}

	output, err := executeCommand(t, NewInitCmd(newTestRuntime(stub)))

	require.NoError(t, err)
	assert.Contains(t, output, "control plane initialized")
	assert.Contains(t, output, "/etc/kubernetes/admin.conf")
	assert.Contains(t, output, "kubeadm join 192.168.1.100:6443")
}

func TestInitCmd_BootstrapFailure(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{initErr: errBootstrap}

	_, err := executeCommand(t, NewInitCmd(newTestRuntime(stub)))

	require.Error(t, err)
	assert.ErrorIs(t, err, errBootstrap)
	assert.Contains(t, err.Error(), "failed to initialize control plane")
}

func TestJoinCmd_PassesRequestToBootstrapper(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{}

	output, err := executeCommand(t, NewJoinCmd(newTestRuntime(stub)),
		"--token", "abcdef.0123456789abcdef",
		"--discovery-token-ca-cert-hash", "sha256:deadbeef",
		"--endpoint", "192.168.1.100:6443",
	)

	require.NoError(t, err)
	assert.Contains(t, output, "node joined")
	assert.Equal(t, bootstrap.JoinRequest{
		Endpoint:   "192.168.1.100:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: "sha256:deadbeef",
	}, stub.joinRequest)
}

func TestJoinCmd_EndpointRequired(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{}

	_, err := executeCommand(t, NewJoinCmd(newTestRuntime(stub)),
		"--token", "abcdef.0123456789abcdef",
		"--discovery-token-ca-cert-hash", "sha256:deadbeef",
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEndpointRequired)
}

func TestJoinCmd_TokenFlagRequired(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{}

	_, err := executeCommand(t, NewJoinCmd(newTestRuntime(stub)),
		"--discovery-token-ca-cert-hash", "sha256:deadbeef",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestJoinCommandCmd_PrintsJoinCommand(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{
		joinCommand: "kubeadm join 192.168.1.100:6443 --token new.token",
	}

	output, err := executeCommand(t, NewJoinCommandCmd(newTestRuntime(stub)))

	require.NoError(t, err)
	assert.Contains(t, output, "kubeadm join 192.168.1.100:6443 --token new.token")
}

func TestResetCmd_Success(t *testing.T) {
	isolate(t)

	stub := &stubBootstrapper{}

	output, err := executeCommand(t, NewResetCmd(newTestRuntime(stub)))

	require.NoError(t, err)
	assert.True(t, stub.resetCalled)
	assert.Contains(t, output, "node reset")
}

// newStatusTestRuntime serves the fake clientset through the runtime's
// clientset factory.
func newStatusTestRuntime(clientset kubernetes.Interface) *di.Runtime {
	return di.New(func(injector di.Injector) error {
		do.Provide(injector, func(di.Injector) (timer.Timer, error) {
			return timer.New(), nil
		})
		do.Provide(injector, func(di.Injector) (di.ClientsetFactory, error) {
			return func(string, string) (kubernetes.Interface, error) {
				return clientset, nil
			}, nil
		})

		return nil
	})
}

func statusNode(name string, controlPlane, ready bool) *corev1.Node {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: map[string]string{}},
		Status: corev1.NodeStatus{
			NodeInfo: corev1.NodeSystemInfo{KubeletVersion: "v1.31.0"},
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionFalse},
			},
		},
	}

	if controlPlane {
		node.Labels[controlPlaneRoleLabel] = ""
	}

	if ready {
		node.Status.Conditions[0].Status = corev1.ConditionTrue
	}

	return node
}

func TestStatusCmd_AllNodesReady(t *testing.T) {
	isolate(t)

	runtime := newStatusTestRuntime(fake.NewClientset(
		statusNode("master-1", true, true),
		statusNode("worker-1", false, true),
	))

	output, err := executeCommand(t, NewStatusCmd(runtime))

	require.NoError(t, err)
	assert.Contains(t, output, "master-1")
	assert.Contains(t, output, "control-plane")
	assert.Contains(t, output, "worker-1")
	assert.Contains(t, output, "v1.31.0")
	assert.NotContains(t, output, "NotReady")
}

func TestStatusCmd_NotReadyNodeFailsCommand(t *testing.T) {
	isolate(t)

	runtime := newStatusTestRuntime(fake.NewClientset(
		statusNode("master-1", true, true),
		statusNode("worker-1", false, false),
	))

	output, err := executeCommand(t, NewStatusCmd(runtime))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodesNotReady)
	assert.Contains(t, output, "NotReady")
}

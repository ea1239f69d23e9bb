package kubeadm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
)

type fakeRunner struct {
	calls   [][]string
	results map[string]exec.CommandResult
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: map[string]exec.CommandResult{},
		errs:    map[string]error{},
	}
}

func (r *fakeRunner) Run(
	_ context.Context,
	name string,
	args ...string,
) (exec.CommandResult, error) {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)

	key := name + " " + strings.Join(args, " ")
	for prefix, result := range r.results {
		if strings.HasPrefix(key, prefix) {
			return result, r.errs[prefix]
		}
	}

	for prefix, err := range r.errs {
		if strings.HasPrefix(key, prefix) {
			return exec.CommandResult{}, err
		}
	}

	return exec.CommandResult{}, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func passingPreflight(
	context.Context,
	exec.CommandRunner,
) ([]PreflightResult, error) {
	return nil, nil
}

func newTestBootstrapper(
	runner *fakeRunner,
	clientset kubernetes.Interface,
) (*Bootstrapper, *v1alpha1.Cluster) {
	cluster := v1alpha1.NewCluster()

	bootstrapper := NewBootstrapper(cluster, runner, &bytes.Buffer{})
	bootstrapper.configDir = "/tmp"
	bootstrapper.preflightFn = passingPreflight
	bootstrapper.newClientset = func(string, string) (kubernetes.Interface, error) {
		return clientset, nil
	}
	// Skip the multi-probe stability wait; its polling behavior is covered
	// by the readiness package tests.
	bootstrapper.waitForAPIServer = func(
		context.Context,
		kubernetes.Interface,
		time.Duration,
	) error {
		return nil
	}

	return bootstrapper, cluster
}

func caHash() string {
	return "sha256:" + strings.Repeat("ab", 32)
}

func TestInit_ParsesJoinCommand(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.results["kubeadm init"] = exec.CommandResult{
		Stdout: "Your Kubernetes control-plane has initialized successfully!\n\n" +
			"kubeadm join 192.168.1.10:6443 --token abcdef.0123456789abcdef \\\n" +
			"\t--discovery-token-ca-cert-hash " + caHash() + "\n",
	}

	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())
	bootstrapper.configDir = t.TempDir()

	result, err := bootstrapper.Init(context.Background())

	require.NoError(t, err)
	assert.Equal(
		t,
		"kubeadm join 192.168.1.10:6443 --token abcdef.0123456789abcdef "+
			"--discovery-token-ca-cert-hash "+caHash(),
		result.JoinCommand,
	)
	assert.Equal(t, AdminKubeconfigPath, result.KubeconfigPath)

	require.NotEmpty(t, runner.calls)
	assert.Equal(t, "kubeadm", runner.calls[0][0])
	assert.Equal(t, "init", runner.calls[0][1])
}

func TestInit_NoJoinCommandInOutput(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.results["kubeadm init"] = exec.CommandResult{Stdout: "done\n"}

	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())
	bootstrapper.configDir = t.TempDir()

	_, err := bootstrapper.Init(context.Background())

	require.ErrorIs(t, err, ErrJoinCommandNotFound)
}

func TestInit_APIServerNeverStabilizes(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.results["kubeadm init"] = exec.CommandResult{
		Stdout: "kubeadm join 10.0.0.1:6443 --token abcdef.0123456789abcdef " +
			"--discovery-token-ca-cert-hash " + caHash(),
	}

	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())
	bootstrapper.configDir = t.TempDir()
	bootstrapper.waitForAPIServer = func(
		context.Context,
		kubernetes.Interface,
		time.Duration,
	) error {
		return readiness.ErrTimeoutExceeded
	}

	_, err := bootstrapper.Init(context.Background())

	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	assert.Contains(t, err.Error(), "API server did not become ready")
}

func TestInit_KubeadmFailure(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.results["kubeadm init"] = exec.CommandResult{Stderr: "port 6443 in use"}
	runner.errs["kubeadm init"] = errors.New("exit status 1")

	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())
	bootstrapper.configDir = t.TempDir()

	_, err := bootstrapper.Init(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 6443 in use")
}

func TestInit_UntaintsControlPlane(t *testing.T) {
	t.Parallel()

	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "master-1",
			Labels: map[string]string{controlPlaneTaintKey: ""},
		},
		Spec: corev1.NodeSpec{
			Taints: []corev1.Taint{
				{Key: controlPlaneTaintKey, Effect: corev1.TaintEffectNoSchedule},
			},
		},
	}

	clientset := fake.NewClientset(node)

	runner := newFakeRunner()
	runner.results["kubeadm init"] = exec.CommandResult{
		Stdout: "kubeadm join 10.0.0.1:6443 --token abcdef.0123456789abcdef " +
			"--discovery-token-ca-cert-hash " + caHash(),
	}

	bootstrapper, cluster := newTestBootstrapper(runner, clientset)
	bootstrapper.configDir = t.TempDir()
	cluster.Spec.Cluster.UntaintControlPlane = true

	_, err := bootstrapper.Init(context.Background())

	require.NoError(t, err)

	updated, err := clientset.CoreV1().
		Nodes().
		Get(context.Background(), "master-1", metav1.GetOptions{})

	require.NoError(t, err)
	assert.Empty(t, updated.Spec.Taints)
}

func TestJoin_ValidatesToken(t *testing.T) {
	t.Parallel()

	bootstrapper, _ := newTestBootstrapper(newFakeRunner(), fake.NewClientset())

	err := bootstrapper.Join(context.Background(), bootstrap.JoinRequest{
		Endpoint:   "192.168.1.10:6443",
		Token:      "not-a-token",
		CACertHash: caHash(),
	})

	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJoin_ValidatesCACertHash(t *testing.T) {
	t.Parallel()

	bootstrapper, _ := newTestBootstrapper(newFakeRunner(), fake.NewClientset())

	err := bootstrapper.Join(context.Background(), bootstrap.JoinRequest{
		Endpoint:   "192.168.1.10:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: "md5:nope",
	})

	require.ErrorIs(t, err, ErrInvalidCACertHash)
}

func TestJoin_RunsKubeadm(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())

	err := bootstrapper.Join(context.Background(), bootstrap.JoinRequest{
		Endpoint:   "192.168.1.10:6443",
		Token:      "abcdef.0123456789abcdef",
		CACertHash: caHash(),
	})

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"kubeadm", "join", "192.168.1.10:6443",
		"--token", "abcdef.0123456789abcdef",
		"--discovery-token-ca-cert-hash", caHash(),
	}, runner.calls[0])
}

func TestJoinCommand(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()
	runner.results["kubeadm token create"] = exec.CommandResult{
		Stdout: "kubeadm join 10.0.0.1:6443 --token zyxwvu.9876543210fedcba " +
			"--discovery-token-ca-cert-hash " + caHash() + " \n",
	}

	bootstrapper, _ := newTestBootstrapper(runner, fake.NewClientset())

	joinCommand, err := bootstrapper.JoinCommand(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(joinCommand, "kubeadm join"))
	assert.NotContains(t, joinCommand, "\n")
}

func TestReset_WarnsAboutCNIState(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner()

	var out bytes.Buffer

	cluster := v1alpha1.NewCluster()
	bootstrapper := NewBootstrapper(cluster, runner, &out)
	bootstrapper.preflightFn = passingPreflight

	err := bootstrapper.Reset(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "CNI")
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"kubeadm", "reset", "--force"}, runner.calls[0])
}

func TestNormalizeJoinCommand(t *testing.T) {
	t.Parallel()

	raw := "kubeadm join 10.0.0.1:6443 --token abcdef.0123456789abcdef \\\n" +
		"\t--discovery-token-ca-cert-hash sha256:deadbeef"

	assert.Equal(
		t,
		"kubeadm join 10.0.0.1:6443 --token abcdef.0123456789abcdef "+
			"--discovery-token-ca-cert-hash sha256:deadbeef",
		normalizeJoinCommand(raw),
	)
}

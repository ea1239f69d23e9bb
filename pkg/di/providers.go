package di

import (
	"io"
	"os"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/homelab-dev/homelab/pkg/k8s"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap"
	"github.com/homelab-dev/homelab/pkg/svc/bootstrap/kubeadm"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
	"github.com/samber/do/v2"
	"k8s.io/client-go/kubernetes"
)

// HelmClientFactory builds a helm client bound to a kubeconfig and context.
type HelmClientFactory func(kubeconfig, kubecontext string) (helm.Interface, error)

// ClientsetFactory builds a kubernetes clientset bound to a kubeconfig and
// context.
type ClientsetFactory func(kubeconfig, kubecontext string) (kubernetes.Interface, error)

// BootstrapperFactory builds a kubeadm bootstrapper for a cluster
// configuration.
type BootstrapperFactory func(
	cluster *v1alpha1.Cluster,
	runner exec.CommandRunner,
	writer io.Writer,
) bootstrap.Bootstrapper

// NewRuntime constructs the shared runtime container used by the root
// command and tests. It registers default implementations for the timer,
// command runner, helm client factory, clientset factory and bootstrapper
// factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideCommandRunner,
		provideHelmClientFactory,
		provideClientsetFactory,
		provideBootstrapperFactory,
	)
}

func provideTimer(injector Injector) error {
	do.Provide(injector, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideCommandRunner(injector Injector) error {
	do.Provide(injector, func(Injector) (exec.CommandRunner, error) {
		return exec.NewHostCommandRunner(os.Stdout, os.Stderr), nil
	})

	return nil
}

func provideHelmClientFactory(injector Injector) error {
	do.Provide(injector, func(Injector) (HelmClientFactory, error) {
		return func(kubeconfig, kubecontext string) (helm.Interface, error) {
			return helm.NewClient(kubeconfig, kubecontext)
		}, nil
	})

	return nil
}

func provideClientsetFactory(injector Injector) error {
	do.Provide(injector, func(Injector) (ClientsetFactory, error) {
		return func(kubeconfig, kubecontext string) (kubernetes.Interface, error) {
			return k8s.NewClientset(kubeconfig, kubecontext)
		}, nil
	})

	return nil
}

func provideBootstrapperFactory(injector Injector) error {
	do.Provide(injector, func(Injector) (BootstrapperFactory, error) {
		return func(
			cluster *v1alpha1.Cluster,
			runner exec.CommandRunner,
			writer io.Writer,
		) bootstrap.Bootstrapper {
			return kubeadm.NewBootstrapper(cluster, runner, writer)
		}, nil
	})

	return nil
}

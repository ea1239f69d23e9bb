package installer

import (
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/client/helm"
	argocdinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/argocd"
	ciliuminstaller "github.com/homelab-dev/homelab/pkg/svc/installer/cilium"
	metallbinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/metallb"
	monitoringinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/monitoring"
	postgresinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/postgres"
	rabbitmqinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/rabbitmq"
	redisinstaller "github.com/homelab-dev/homelab/pkg/svc/installer/redis"
)

// Factory creates installers based on cluster configuration. It holds the
// shared dependencies required by installers.
type Factory struct {
	helmClient  helm.Interface
	kubeconfig  string
	kubecontext string
	timeout     time.Duration
}

// NewFactory creates a new installer factory with the required dependencies.
func NewFactory(
	helmClient helm.Interface,
	kubeconfig, kubecontext string,
	timeout time.Duration,
) *Factory {
	return &Factory{
		helmClient:  helmClient,
		kubeconfig:  kubeconfig,
		kubecontext: kubecontext,
		timeout:     timeout,
	}
}

// CreateInstallersForConfig creates installers for all components enabled in
// the cluster config. Returns a map of component to installer; iterate with
// v1alpha1.ComponentInstallOrder to preserve the deployment order.
func (f *Factory) CreateInstallersForConfig(
	cfg *v1alpha1.Cluster,
) map[v1alpha1.Component]Installer {
	installers := make(map[v1alpha1.Component]Installer)
	components := cfg.Spec.Components

	if components.Cilium.Enabled {
		installers[v1alpha1.ComponentCilium] = ciliuminstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout,
			components.Cilium, cfg.Spec.Network.ControlPlaneEndpoint,
		)
	}

	if components.MetalLB.Enabled {
		installers[v1alpha1.ComponentMetalLB] = metallbinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.MetalLB,
		)
	}

	if components.Monitoring.Enabled {
		installers[v1alpha1.ComponentMonitoring] = monitoringinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.Monitoring,
		)
	}

	if components.Postgres.Enabled {
		installers[v1alpha1.ComponentPostgres] = postgresinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.Postgres,
		)
	}

	if components.Redis.Enabled {
		installers[v1alpha1.ComponentRedis] = redisinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.Redis,
		)
	}

	if components.RabbitMQ.Enabled {
		installers[v1alpha1.ComponentRabbitMQ] = rabbitmqinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.RabbitMQ,
		)
	}

	if components.ArgoCD.Enabled {
		installers[v1alpha1.ComponentArgoCD] = argocdinstaller.NewInstaller(
			f.helmClient, f.kubeconfig, f.kubecontext, f.timeout, components.ArgoCD,
		)
	}

	return installers
}

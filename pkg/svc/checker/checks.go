package checker

import (
	"context"
	"fmt"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/k8s/readiness"
)

// Workload locations per component. These mirror what the installers deploy.
var componentWorkloads = map[v1alpha1.Component][]readiness.Check{
	v1alpha1.ComponentCilium: {
		{Kind: readiness.KindDaemonSet, Namespace: "kube-system", Name: "cilium"},
		{Kind: readiness.KindDeployment, Namespace: "kube-system", Name: "cilium-operator"},
	},
	v1alpha1.ComponentMetalLB: {
		{Kind: readiness.KindDeployment, Namespace: "metallb-system", Name: "metallb-controller"},
		{Kind: readiness.KindDaemonSet, Namespace: "metallb-system", Name: "metallb-speaker"},
	},
	v1alpha1.ComponentMonitoring: {
		{Kind: readiness.KindDeployment, Namespace: "monitoring", Name: "monitoring-grafana"},
		{
			Kind:      readiness.KindStatefulSet,
			Namespace: "monitoring",
			Name:      "prometheus-monitoring-kube-prometheus-prometheus",
		},
	},
	v1alpha1.ComponentPostgres: {
		{Kind: readiness.KindStatefulSet, Namespace: "data", Name: "postgresql"},
	},
	v1alpha1.ComponentRedis: {
		{Kind: readiness.KindStatefulSet, Namespace: "data", Name: "redis-master"},
	},
	v1alpha1.ComponentRabbitMQ: {
		{Kind: readiness.KindStatefulSet, Namespace: "data", Name: "rabbitmq"},
	},
	v1alpha1.ComponentArgoCD: {
		{Kind: readiness.KindDeployment, Namespace: "argocd", Name: "argocd-server"},
		{Kind: readiness.KindDeployment, Namespace: "argocd", Name: "argocd-repo-server"},
	},
}

// LoadBalancer services that MetalLB must have addressed. Only meaningful
// when MetalLB itself is part of the stack.
type loadBalancerCheck struct {
	component v1alpha1.Component
	namespace string
	service   string
}

var loadBalancerChecks = []loadBalancerCheck{
	{component: v1alpha1.ComponentMonitoring, namespace: "monitoring", service: "monitoring-grafana"},
	{component: v1alpha1.ComponentArgoCD, namespace: "argocd", service: "argocd-server"},
}

// Sample application health endpoint, reachable once Argo CD has synced the
// apps. The API service listens on the original backend port.
const (
	sampleAppNamespace  = "apps"
	sampleAppService    = "homelab-api"
	sampleAppPort       = 8000
	sampleAppHealthPath = "/health"
)

func (c *Checker) buildChecks() []check {
	var checks []check

	for _, component := range c.cluster.EnabledComponents() {
		workloads := componentWorkloads[component]
		if len(workloads) == 0 {
			continue
		}

		checks = append(checks, check{
			name: string(component) + " workloads",
			run: func(ctx context.Context) (string, error) {
				err := readiness.WaitForResources(ctx, c.clientset, workloads, c.timeout)
				if err != nil {
					return "", err
				}

				return fmt.Sprintf("%d workloads ready", len(workloads)), nil
			},
		})
	}

	if c.cluster.ComponentEnabled(v1alpha1.ComponentMetalLB) {
		checks = append(checks, c.buildLoadBalancerChecks()...)
	}

	if c.cluster.ComponentEnabled(v1alpha1.ComponentArgoCD) &&
		c.cluster.ComponentEnabled(v1alpha1.ComponentMetalLB) {
		checks = append(checks, c.buildSampleAppCheck())
	}

	return checks
}

func (c *Checker) buildLoadBalancerChecks() []check {
	var checks []check

	for _, lbCheck := range loadBalancerChecks {
		if !c.cluster.ComponentEnabled(lbCheck.component) {
			continue
		}

		checks = append(checks, check{
			name: lbCheck.service + " address",
			run: func(ctx context.Context) (string, error) {
				address, err := readiness.WaitForLoadBalancerIP(
					ctx, c.clientset, lbCheck.namespace, lbCheck.service, c.timeout,
				)
				if err != nil {
					return "", fmt.Errorf(
						"no LoadBalancer address on %s/%s: %w",
						lbCheck.namespace, lbCheck.service, err,
					)
				}

				return "assigned " + address, nil
			},
		})
	}

	return checks
}

func (c *Checker) buildSampleAppCheck() check {
	return check{
		name: sampleAppService + " health",
		run: func(ctx context.Context) (string, error) {
			address, err := readiness.WaitForLoadBalancerIP(
				ctx, c.clientset, sampleAppNamespace, sampleAppService, c.timeout,
			)
			if err != nil {
				return "", fmt.Errorf(
					"no LoadBalancer address on %s/%s: %w",
					sampleAppNamespace, sampleAppService, err,
				)
			}

			url := fmt.Sprintf("http://%s:%d%s", address, sampleAppPort, sampleAppHealthPath)

			return c.probeHTTP(ctx, url)
		},
	}
}

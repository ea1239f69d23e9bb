// Package helm wraps the Helm v4 action API behind a small interface used by
// the component installers.
package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	helmaction "helm.sh/helm/v4/pkg/action"
	chartv2 "helm.sh/helm/v4/pkg/chart/v2"
	helmloader "helm.sh/helm/v4/pkg/chart/loader"
	helmcli "helm.sh/helm/v4/pkg/cli"
	helmgetter "helm.sh/helm/v4/pkg/getter"
	helmkube "helm.sh/helm/v4/pkg/kube"
	releasev1 "helm.sh/helm/v4/pkg/release/v1"
	repov1 "helm.sh/helm/v4/pkg/repo/v1"
	helmstrvals "helm.sh/helm/v4/pkg/strvals"
	"sigs.k8s.io/yaml"
)

// DefaultTimeout is the fallback timeout for chart operations.
const DefaultTimeout = 5 * time.Minute

var (
	errReleaseNameRequired     = errors.New("helm: release name is required")
	errRepositoryEntryRequired = errors.New("helm: repository entry is required")
	errRepositoryNameRequired  = errors.New("helm: repository name is required")
	errChartSpecRequired       = errors.New("helm: chart spec is required")

	// ErrReleaseNotFound is returned when a release has no history.
	ErrReleaseNotFound = errors.New("helm: release not found")
)

// ChartSpec describes a chart installation or upgrade.
type ChartSpec struct {
	ReleaseName string
	ChartName   string
	Namespace   string
	Version     string
	RepoURL     string

	CreateNamespace bool
	Wait            bool
	WaitForJobs     bool
	UpgradeCRDs     bool
	Timeout         time.Duration

	// ValuesYaml is merged first, SetValues and SetJSONVals override it.
	ValuesYaml  string
	SetValues   map[string]string
	SetJSONVals map[string]string
}

// RepositoryEntry describes a Helm repository to register locally before
// chart operations.
type RepositoryEntry struct {
	Name string
	URL  string
}

// ReleaseInfo captures metadata about a release after an operation.
type ReleaseInfo struct {
	Name       string
	Namespace  string
	Revision   int
	Status     string
	Chart      string
	AppVersion string
	Updated    time.Time
}

// Interface defines the Helm functionality required by the installers.
type Interface interface {
	AddRepository(ctx context.Context, entry *RepositoryEntry) error
	InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
	UninstallRelease(ctx context.Context, releaseName, namespace string) error
	GetRelease(ctx context.Context, releaseName, namespace string) (*ReleaseInfo, error)
}

// Client is the default Helm implementation.
type Client struct {
	actionConfig *helmaction.Configuration
	settings     *helmcli.EnvSettings
}

var _ Interface = (*Client)(nil)

// NewClient creates a Helm client bound to the provided kubeconfig and
// context.
func NewClient(kubeConfig, kubeContext string) (*Client, error) {
	settings := helmcli.New()
	if kubeConfig != "" {
		settings.KubeConfig = kubeConfig
	}

	if kubeContext != "" {
		settings.KubeContext = kubeContext
	}

	actionConfig := new(helmaction.Configuration)

	err := actionConfig.Init(
		settings.RESTClientGetter(),
		settings.Namespace(),
		os.Getenv("HELM_DRIVER"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	return &Client{actionConfig: actionConfig, settings: settings}, nil
}

// InstallOrUpgradeChart upgrades a release when it exists and installs it
// otherwise.
func (c *Client) InstallOrUpgradeChart(
	ctx context.Context,
	spec *ChartSpec,
) (*ReleaseInfo, error) {
	if spec == nil {
		return nil, errChartSpecRequired
	}

	cleanup, err := c.switchNamespace(spec.Namespace)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var release *releasev1.Release

	history := helmaction.NewHistory(c.actionConfig)
	history.Max = 1

	releases, histErr := history.Run(spec.ReleaseName)
	if histErr == nil && len(releases) > 0 {
		release, err = c.upgradeRelease(ctx, spec)
	} else {
		release, err = c.installRelease(ctx, spec)
	}

	if err != nil {
		return nil, err
	}

	return releaseToInfo(release), nil
}

// UninstallRelease removes a release by name within the provided namespace.
// Uninstalling a release that does not exist returns an error from Helm.
func (c *Client) UninstallRelease(ctx context.Context, releaseName, namespace string) error {
	if releaseName == "" {
		return errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("uninstall release context cancelled: %w", ctxErr)
	}

	cleanup, err := c.switchNamespace(namespace)
	if err != nil {
		return err
	}
	defer cleanup()

	uninstall := helmaction.NewUninstall(c.actionConfig)
	uninstall.KeepHistory = false

	_, uninstallErr := uninstall.Run(releaseName)
	if uninstallErr != nil {
		return fmt.Errorf("uninstall release %q: %w", releaseName, uninstallErr)
	}

	return nil
}

// GetRelease returns metadata about the latest revision of a release.
func (c *Client) GetRelease(
	ctx context.Context,
	releaseName, namespace string,
) (*ReleaseInfo, error) {
	if releaseName == "" {
		return nil, errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return nil, fmt.Errorf("get release context cancelled: %w", ctxErr)
	}

	cleanup, err := c.switchNamespace(namespace)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	history := helmaction.NewHistory(c.actionConfig)
	history.Max = 1

	releases, histErr := history.Run(releaseName)
	if histErr != nil || len(releases) == 0 {
		return nil, fmt.Errorf("%w: %q in namespace %q", ErrReleaseNotFound, releaseName, namespace)
	}

	return releaseToInfo(releases[len(releases)-1]), nil
}

// --- internals ---

func (c *Client) installRelease(
	ctx context.Context,
	spec *ChartSpec,
) (*releasev1.Release, error) {
	install := helmaction.NewInstall(c.actionConfig)
	install.ReleaseName = spec.ReleaseName
	install.Namespace = spec.Namespace
	install.CreateNamespace = spec.CreateNamespace
	install.WaitForJobs = spec.WaitForJobs
	install.Version = spec.Version
	install.Timeout = effectiveTimeout(spec)

	if spec.Wait {
		install.WaitStrategy = helmkube.StatusWatcherStrategy
	}

	chart, err := c.locateAndLoadChart(spec, &install.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	vals, err := mergeValues(spec)
	if err != nil {
		return nil, err
	}

	releaser, err := install.RunWithContext(ctx, chart, vals)
	if err != nil {
		return nil, fmt.Errorf("install chart %q: %w", spec.ChartName, err)
	}

	return assertRelease(releaser)
}

func (c *Client) upgradeRelease(
	ctx context.Context,
	spec *ChartSpec,
) (*releasev1.Release, error) {
	upgrade := helmaction.NewUpgrade(c.actionConfig)
	upgrade.Namespace = spec.Namespace
	upgrade.WaitForJobs = spec.WaitForJobs
	upgrade.Version = spec.Version
	upgrade.Timeout = effectiveTimeout(spec)
	upgrade.SkipCRDs = !spec.UpgradeCRDs

	if spec.Wait {
		upgrade.WaitStrategy = helmkube.StatusWatcherStrategy
	}

	chart, err := c.locateAndLoadChart(spec, &upgrade.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	vals, err := mergeValues(spec)
	if err != nil {
		return nil, err
	}

	releaser, err := upgrade.RunWithContext(ctx, spec.ReleaseName, chart, vals)
	if err != nil {
		return nil, fmt.Errorf("upgrade chart %q: %w", spec.ChartName, err)
	}

	return assertRelease(releaser)
}

func (c *Client) locateAndLoadChart(
	spec *ChartSpec,
	pathOptions *helmaction.ChartPathOptions,
) (*chartv2.Chart, error) {
	chartPath := spec.ChartName

	if spec.RepoURL != "" {
		pathOptions.RepoURL = spec.RepoURL

		located, err := c.locateChartFromRepo(spec)
		if err != nil {
			return nil, err
		}

		chartPath = located
	}

	chartInterface, err := helmloader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	chart, ok := chartInterface.(*chartv2.Chart)
	if !ok {
		return nil, fmt.Errorf("unexpected chart type: %T", chartInterface)
	}

	return chart, nil
}

func (c *Client) locateChartFromRepo(spec *ChartSpec) (string, error) {
	chartName := spec.ChartName
	if _, name := splitChartRef(spec.ChartName); name != "" {
		chartName = name
	}

	chartURL, err := repov1.FindChartInRepoURL(
		spec.RepoURL,
		chartName,
		helmgetter.All(c.settings),
		repov1.WithChartVersion(spec.Version),
	)
	if err != nil {
		return "", fmt.Errorf(
			"failed to locate chart %q in repository %s: %w", chartName, spec.RepoURL, err,
		)
	}

	return chartURL, nil
}

// switchNamespace points the action configuration at the given namespace and
// returns a function that restores the previous namespace.
func (c *Client) switchNamespace(namespace string) (func(), error) {
	if namespace == "" || c.settings.Namespace() == namespace {
		return func() {}, nil
	}

	previous := c.settings.Namespace()
	c.settings.SetNamespace(namespace)

	err := c.actionConfig.Init(
		c.settings.RESTClientGetter(),
		namespace,
		os.Getenv("HELM_DRIVER"),
	)
	if err != nil {
		c.settings.SetNamespace(previous)
		_ = c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previous,
			os.Getenv("HELM_DRIVER"),
		)

		return nil, fmt.Errorf("failed to set helm namespace %q: %w", namespace, err)
	}

	return func() {
		c.settings.SetNamespace(previous)
		_ = c.actionConfig.Init(
			c.settings.RESTClientGetter(),
			previous,
			os.Getenv("HELM_DRIVER"),
		)
	}, nil
}

func effectiveTimeout(spec *ChartSpec) time.Duration {
	if spec.Timeout == 0 {
		return DefaultTimeout
	}

	return spec.Timeout
}

// mergeValues layers ValuesYaml, SetValues and SetJSONVals in that order.
func mergeValues(spec *ChartSpec) (map[string]any, error) {
	base := map[string]any{}

	if spec.ValuesYaml != "" {
		err := yaml.Unmarshal([]byte(spec.ValuesYaml), &base)
		if err != nil {
			return nil, fmt.Errorf("failed to parse values yaml: %w", err)
		}
	}

	for key, val := range spec.SetValues {
		err := helmstrvals.ParseInto(fmt.Sprintf("%s=%s", key, val), base)
		if err != nil {
			return nil, fmt.Errorf("failed to parse set value %s=%s: %w", key, val, err)
		}
	}

	for key, val := range spec.SetJSONVals {
		err := helmstrvals.ParseJSON(fmt.Sprintf("%s=%s", key, val), base)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON value %s=%s: %w", key, val, err)
		}
	}

	return base, nil
}

func splitChartRef(chartRef string) (string, string) {
	parts := strings.SplitN(chartRef, "/", 2)
	if len(parts) == 1 {
		return "", parts[0]
	}

	return parts[0], parts[1]
}

func assertRelease(releaser any) (*releasev1.Release, error) {
	release, ok := releaser.(*releasev1.Release)
	if !ok {
		return nil, fmt.Errorf("unexpected release type: %T", releaser)
	}

	return release, nil
}

func releaseToInfo(release *releasev1.Release) *ReleaseInfo {
	if release == nil {
		return nil
	}

	return &ReleaseInfo{
		Name:       release.Name,
		Namespace:  release.Namespace,
		Revision:   release.Version,
		Status:     release.Info.Status.String(),
		Chart:      release.Chart.Metadata.Name,
		AppVersion: release.Chart.Metadata.AppVersion,
		Updated:    release.Info.LastDeployed,
	}
}

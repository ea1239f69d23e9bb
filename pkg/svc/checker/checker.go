// Package checker runs post-deployment smoke checks against the cluster:
// workload readiness per enabled component, LoadBalancer address assignment
// and HTTP health probes for the sample applications.
package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
)

// ErrChecksFailed is returned when at least one smoke check fails.
var ErrChecksFailed = errors.New("one or more checks failed")

// Result is the outcome of a single smoke check.
type Result struct {
	Name   string
	Detail string
	Err    error
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Checker verifies a deployed homelab stack.
type Checker struct {
	cluster    *v1alpha1.Cluster
	clientset  kubernetes.Interface
	timeout    time.Duration
	httpClient *http.Client
}

// NewChecker creates a checker for the given cluster configuration.
func NewChecker(
	cluster *v1alpha1.Cluster,
	clientset kubernetes.Interface,
	timeout time.Duration,
) *Checker {
	return &Checker{
		cluster:   cluster,
		clientset: clientset,
		timeout:   timeout,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetHTTPClient overrides the HTTP client used for health probes. Primarily
// used for testing.
func (c *Checker) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Run executes every smoke check for the enabled components concurrently and
// returns the results sorted by check name. The returned error is
// ErrChecksFailed when any check failed; individual failures are carried in
// the results.
func (c *Checker) Run(ctx context.Context) ([]Result, error) {
	checks := c.buildChecks()
	results := make([]Result, len(checks))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, check := range checks {
		group.Go(func() error {
			detail, err := check.run(groupCtx)
			results[i] = Result{Name: check.name, Detail: detail, Err: err}

			return nil
		})
	}

	// Check failures are reported through results, never through the group.
	_ = group.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	for _, result := range results {
		if !result.Passed() {
			return results, ErrChecksFailed
		}
	}

	return results, nil
}

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// probeHTTP performs a GET against the URL and requires a 200 response.
func (c *Checker) probeHTTP(ctx context.Context, url string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", url, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("probe %s: unexpected status %d", url, response.StatusCode)
	}

	return fmt.Sprintf("%s returned 200", url), nil
}

package kubeadm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/homelab-dev/homelab/pkg/exec"
)

// ErrPreflightFailed is returned when one or more preflight checks fail.
var ErrPreflightFailed = errors.New("preflight checks failed")

// Paths probed by the node preflight checks. Overridable for tests.
type preflightPaths struct {
	swaps     string
	modules   string
	ipForward string
}

func defaultPreflightPaths() preflightPaths {
	return preflightPaths{
		swaps:     "/proc/swaps",
		modules:   "/proc/modules",
		ipForward: "/proc/sys/net/ipv4/ip_forward",
	}
}

// PreflightResult reports the outcome of a single node check.
type PreflightResult struct {
	Name    string
	Passed  bool
	Message string
}

// RunPreflight verifies the node satisfies kubeadm's requirements: swap is
// disabled, the br_netfilter and overlay kernel modules are loaded, IPv4
// forwarding is on, and the kubeadm/kubelet binaries are present.
func RunPreflight(ctx context.Context, runner exec.CommandRunner) ([]PreflightResult, error) {
	return runPreflight(ctx, runner, defaultPreflightPaths())
}

func runPreflight(
	_ context.Context,
	runner exec.CommandRunner,
	paths preflightPaths,
) ([]PreflightResult, error) {
	results := []PreflightResult{
		checkSwapDisabled(paths.swaps),
		checkKernelModule(paths.modules, "br_netfilter"),
		checkKernelModule(paths.modules, "overlay"),
		checkIPForward(paths.ipForward),
		checkBinary(runner, "kubeadm"),
		checkBinary(runner, "kubelet"),
	}

	var failed []string

	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result.Name)
		}
	}

	if len(failed) > 0 {
		return results, fmt.Errorf("%w: %s", ErrPreflightFailed, strings.Join(failed, ", "))
	}

	return results, nil
}

// checkSwapDisabled reads /proc/swaps. The kubelet refuses to start with
// swap enabled; the file has a header line only when no swap is active.
func checkSwapDisabled(swapsPath string) PreflightResult {
	result := PreflightResult{Name: "swap disabled"}

	data, err := os.ReadFile(swapsPath)
	if err != nil {
		result.Passed = true
		result.Message = "swap accounting unavailable, assuming disabled"

		return result
	}

	lines := nonEmptyLines(string(data))
	if len(lines) > 1 {
		result.Message = "swap is enabled, run 'swapoff -a' and remove swap from /etc/fstab"

		return result
	}

	result.Passed = true

	return result
}

func checkKernelModule(modulesPath, module string) PreflightResult {
	result := PreflightResult{Name: "kernel module " + module}

	data, err := os.ReadFile(modulesPath)
	if err != nil {
		result.Message = fmt.Sprintf("cannot read %s: %v", modulesPath, err)

		return result
	}

	for _, line := range nonEmptyLines(string(data)) {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == module {
			result.Passed = true

			return result
		}
	}

	result.Message = fmt.Sprintf("module not loaded, run 'modprobe %s'", module)

	return result
}

func checkIPForward(ipForwardPath string) PreflightResult {
	result := PreflightResult{Name: "ipv4 forwarding"}

	data, err := os.ReadFile(ipForwardPath)
	if err != nil {
		result.Message = fmt.Sprintf("cannot read %s: %v", ipForwardPath, err)

		return result
	}

	if strings.TrimSpace(string(data)) != "1" {
		result.Message = "disabled, run 'sysctl -w net.ipv4.ip_forward=1'"

		return result
	}

	result.Passed = true

	return result
}

func checkBinary(runner exec.CommandRunner, name string) PreflightResult {
	result := PreflightResult{Name: "binary " + name}

	_, err := runner.LookPath(name)
	if err != nil {
		result.Message = err.Error()

		return result
	}

	result.Passed = true

	return result
}

func nonEmptyLines(content string) []string {
	var lines []string

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

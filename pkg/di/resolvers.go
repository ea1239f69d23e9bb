package di

import (
	"fmt"

	"github.com/homelab-dev/homelab/pkg/exec"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
	"github.com/samber/do/v2"
)

// ResolveTimer retrieves the timer dependency from the injector.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveCommandRunner retrieves the command runner dependency from the
// injector.
func ResolveCommandRunner(injector Injector) (exec.CommandRunner, error) {
	runner, err := do.Invoke[exec.CommandRunner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve command runner dependency: %w", err)
	}

	return runner, nil
}

// ResolveHelmClientFactory retrieves the helm client factory dependency from
// the injector.
func ResolveHelmClientFactory(injector Injector) (HelmClientFactory, error) {
	factory, err := do.Invoke[HelmClientFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve helm client factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveClientsetFactory retrieves the kubernetes clientset factory
// dependency from the injector.
func ResolveClientsetFactory(injector Injector) (ClientsetFactory, error) {
	factory, err := do.Invoke[ClientsetFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve clientset factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveBootstrapperFactory retrieves the bootstrapper factory dependency
// from the injector.
func ResolveBootstrapperFactory(injector Injector) (BootstrapperFactory, error) {
	factory, err := do.Invoke[BootstrapperFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve bootstrapper factory dependency: %w", err)
	}

	return factory, nil
}

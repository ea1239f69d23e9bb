// Package di wires the CLI's shared dependencies through a samber/do
// container. Commands receive an Injector and resolve what they need.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector aliases the samber/do injector so callers do not import do
// directly.
type Injector = do.Injector

// Module registers one or more dependencies with an injector.
type Module func(Injector) error

// Runtime holds the modules used to build a fresh injector per invocation.
type Runtime struct {
	modules []Module
}

// New creates a runtime from the given modules. Modules run in order on each
// Invoke.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke builds a fresh injector, applies the runtime's modules plus any
// extras, runs the handler, and shuts the injector down afterwards.
func (r *Runtime) Invoke(handler func(Injector) error, extraModules ...Module) error {
	injector := do.New()
	defer injector.Shutdown()

	for _, module := range r.modules {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	for _, module := range extraModules {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts an injector-aware handler into a cobra RunE.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}

package di_test

import (
	"errors"
	"testing"

	"github.com/homelab-dev/homelab/pkg/di"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errHandler = errors.New("handler error")
	errModule  = errors.New("module error")
)

func TestNew_EmptyModules(t *testing.T) {
	t.Parallel()

	require.NotNil(t, di.New())
}

func TestRuntime_Invoke_Success(t *testing.T) {
	t.Parallel()

	handlerCalled := false

	err := di.New().Invoke(func(di.Injector) error {
		handlerCalled = true

		return nil
	})

	require.NoError(t, err)
	assert.True(t, handlerCalled)
}

func TestRuntime_Invoke_HandlerError(t *testing.T) {
	t.Parallel()

	err := di.New().Invoke(func(di.Injector) error {
		return errHandler
	})

	require.Error(t, err)
	assert.Equal(t, errHandler, err)
}

func TestRuntime_Invoke_ModuleError(t *testing.T) {
	t.Parallel()

	failingModule := func(di.Injector) error {
		return errModule
	}

	err := di.New(failingModule).Invoke(func(di.Injector) error {
		t.Fatal("handler should not be called when module fails")

		return nil
	})

	require.Error(t, err)
	assert.Equal(t, errModule, err)
}

func TestRuntime_Invoke_WithExtraModules(t *testing.T) {
	t.Parallel()

	baseCalled := false
	extraCalled := false

	runtime := di.New(func(di.Injector) error {
		baseCalled = true

		return nil
	})

	err := runtime.Invoke(func(di.Injector) error {
		return nil
	}, func(di.Injector) error {
		extraCalled = true

		return nil
	})

	require.NoError(t, err)
	assert.True(t, baseCalled, "base module should be called")
	assert.True(t, extraCalled, "extra module should be called")
}

func TestRuntime_Invoke_NilModule(t *testing.T) {
	t.Parallel()

	err := di.New(nil).Invoke(func(di.Injector) error {
		return nil
	}, nil)

	require.NoError(t, err)
}

func TestRuntime_Invoke_DependencyResolution(t *testing.T) {
	t.Parallel()

	type service struct {
		Name string
	}

	module := func(injector di.Injector) error {
		do.Provide(injector, func(di.Injector) (*service, error) {
			return &service{Name: "test"}, nil
		})

		return nil
	}

	var resolved *service

	err := di.New(module).Invoke(func(injector di.Injector) error {
		var invokeErr error

		resolved, invokeErr = do.Invoke[*service](injector)

		return invokeErr
	})

	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "test", resolved.Name)
}

func TestRunEWithRuntime_Success(t *testing.T) {
	t.Parallel()

	handlerCalled := false

	var receivedCmd *cobra.Command

	runE := di.RunEWithRuntime(di.New(), func(cmd *cobra.Command, _ di.Injector) error {
		handlerCalled = true
		receivedCmd = cmd

		return nil
	})

	cmd := &cobra.Command{Use: "test"}
	err := runE(cmd, nil)

	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, cmd, receivedCmd)
}

func TestRunEWithRuntime_HandlerError(t *testing.T) {
	t.Parallel()

	runE := di.RunEWithRuntime(di.New(), func(*cobra.Command, di.Injector) error {
		return errHandler
	})

	err := runE(&cobra.Command{Use: "test"}, nil)

	require.Error(t, err)
	assert.Equal(t, errHandler, err)
}

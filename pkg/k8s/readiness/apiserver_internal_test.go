package readiness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func TestAPIServerStableProbe_ResetsAfterFailure(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()

	failing := true
	clientset.PrependReactor("get", "version",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			if failing {
				return true, nil, errors.New("connection refused")
			}

			return false, nil, nil
		})

	probe := apiServerStableProbe(clientset, 2)
	ctx := context.Background()

	ready, err := probe(ctx)
	require.NoError(t, err)
	assert.False(t, ready, "failing server must not count as ready")

	failing = false
	ready, err = probe(ctx)
	require.NoError(t, err)
	assert.False(t, ready, "one success is below the required streak")

	failing = true
	ready, err = probe(ctx)
	require.NoError(t, err)
	assert.False(t, ready, "a failure must reset the streak")

	failing = false
	ready, err = probe(ctx)
	require.NoError(t, err)
	assert.False(t, ready, "streak restarts at one after a failure")

	ready, err = probe(ctx)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestAPIServerStableProbe_ClampsRequiredSuccesses(t *testing.T) {
	t.Parallel()

	probe := apiServerStableProbe(fake.NewClientset(), 0)

	ready, err := probe(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)
}

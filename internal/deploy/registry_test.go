package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/remote"
	"github.com/skiffd/skiff/pkg/errs"
)

func newTestRegistry(t *testing.T, services ...v1.ServiceSpec) *Registry {
	t.Helper()
	runner := remote.NewRunner(&fakeTransport{}, testLogger(t))
	return NewRegistry(testTarget, services, runner, testLogger(t))
}

func TestRegistryService(t *testing.T) {
	reg := newTestRegistry(t,
		v1.ServiceSpec{Name: "app", Command: "./bin/app"},
		v1.ServiceSpec{Name: "worker", Command: "./bin/worker"},
	)

	t.Run("empty name resolves first configured service", func(t *testing.T) {
		unit, err := reg.Service("")
		require.NoError(t, err)
		assert.Equal(t, "app", unit.Spec().Name)
	})

	t.Run("named lookup", func(t *testing.T) {
		unit, err := reg.Service("worker")
		require.NoError(t, err)
		assert.Equal(t, "demo-worker", unit.UnitName())
	})

	t.Run("unknown name is a hard error", func(t *testing.T) {
		_, err := reg.Service("db")
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrServiceNotFound))
	})
}

func TestRegistryServiceNoneConfigured(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Service("")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrConfig))
}

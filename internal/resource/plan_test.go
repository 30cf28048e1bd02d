package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

func validSpec() *runspec.RunSpec {
	return &runspec.RunSpec{
		Env:         "Env-v0",
		Model:       "PPO",
		Workers:     4,
		GPUs:        1,
		Framework:   "torch",
		ObjStoreMem: 3000000000,
	}
}

func TestResolvePassthrough(t *testing.T) {
	plan, err := Resolve(validSpec())
	require.NoError(t, err)

	assert.Equal(t, 4, plan.Workers)
	assert.Equal(t, 1, plan.GPUs)
	assert.Equal(t, int64(3000000000), plan.ObjStoreMem)
	assert.Equal(t, "torch", plan.Framework)
}

func TestResolveZeroResourcesAllowed(t *testing.T) {
	spec := validSpec()
	spec.Workers = 0
	spec.GPUs = 0

	plan, err := Resolve(spec)
	require.NoError(t, err)
	assert.Zero(t, plan.Workers)
	assert.Zero(t, plan.GPUs)
}

func TestResolveErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*runspec.RunSpec)
		kind   Kind
	}{
		{
			name:   "negative workers",
			mutate: func(s *runspec.RunSpec) { s.Workers = -1 },
			kind:   KindNegativeResource,
		},
		{
			name:   "negative gpus",
			mutate: func(s *runspec.RunSpec) { s.GPUs = -2 },
			kind:   KindNegativeResource,
		},
		{
			name:   "memory budget below floor",
			mutate: func(s *runspec.RunSpec) { s.ObjStoreMem = MinObjStoreMem - 1 },
			kind:   KindInsufficientMemoryBudget,
		},
		{
			name:   "zero memory budget",
			mutate: func(s *runspec.RunSpec) { s.ObjStoreMem = 0 },
			kind:   KindInsufficientMemoryBudget,
		},
		{
			name:   "unsupported framework",
			mutate: func(s *runspec.RunSpec) { s.Framework = "jax" },
			kind:   KindUnsupportedFramework,
		},
		{
			name:   "retired tf framework",
			mutate: func(s *runspec.RunSpec) { s.Framework = "tf" },
			kind:   KindUnsupportedFramework,
		},
		{
			name:   "empty framework",
			mutate: func(s *runspec.RunSpec) { s.Framework = "" },
			kind:   KindUnsupportedFramework,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(spec)

			_, err := Resolve(spec)
			require.Error(t, err)

			var resErr *Error
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, tc.kind, resErr.Kind)
		})
	}
}

func TestResolveMemoryFloorBoundary(t *testing.T) {
	spec := validSpec()
	spec.ObjStoreMem = MinObjStoreMem

	_, err := Resolve(spec)
	require.NoError(t, err, "the floor itself is a viable budget")
}

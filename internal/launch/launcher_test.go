package launch

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameleon-rl/rllaunch/internal/checkpoint"
	"github.com/cameleon-rl/rllaunch/internal/dispatch"
	"github.com/cameleon-rl/rllaunch/internal/resource"
	"github.com/cameleon-rl/rllaunch/internal/runspec"
	"github.com/cameleon-rl/rllaunch/internal/testutil"
	"github.com/cameleon-rl/rllaunch/internal/trainer"
)

func baseRaw() runspec.Raw {
	return runspec.Raw{
		Env:              "Env-v0",
		Model:            "DQN",
		Wrappers:         "encoding_only",
		Epochs:           "100",
		Episodes:         "0",
		Timesteps:        "0",
		CheckpointEpochs: "10",
		Workers:          "4",
		GPUs:             "0",
		Framework:        "torch",
		Verbose:          "false",
		ObjStoreMem:      "3000000000",
		Tune:             "false",
		Outdir:           "models",
	}
}

func newTestLauncher(fs checkpoint.Statter, inv trainer.Invoker) *Launcher {
	if fs == nil {
		fs = &testutil.FakeStatter{}
	}
	return New(fs, inv)
}

// Scenario: a plain single run invokes the trainer exactly once with no
// checkpoint reference.
func TestLaunchSingleRunFresh(t *testing.T) {
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(nil, invoker)

	res := l.Launch(context.Background(), baseRaw(), "")
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, dispatch.SingleRun, res.Mode)
	assert.NotEmpty(t, res.LaunchID)

	require.Equal(t, 1, invoker.CallCount())
	call := invoker.Calls[0]
	assert.Nil(t, call.Checkpoint)
	assert.Equal(t, dispatch.SingleRun, call.Mode)
	assert.Equal(t, res.RunDir, call.RunDir)
}

// Scenario: resuming from checkpoint-50 with a budget of 100 resolves an
// epoch-50 reference and launches.
func TestLaunchResumeWithinBudget(t *testing.T) {
	fs := &testutil.FakeStatter{Existing: map[string]bool{"models/ckpt_050/checkpoint-50": true}}
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(fs, invoker)

	raw := baseRaw()
	raw.CheckpointPath = "models/ckpt_050/checkpoint-50"

	res := l.Launch(context.Background(), raw, "")
	require.NoError(t, res.Err)
	require.Equal(t, 1, invoker.CallCount())

	ref := invoker.Calls[0].Checkpoint
	require.NotNil(t, ref)
	assert.Equal(t, 50, ref.Epoch)
}

// Scenario: a checkpoint past the epoch budget fails resolution and the
// trainer is never invoked.
func TestLaunchResumeBeyondBudget(t *testing.T) {
	fs := &testutil.FakeStatter{Existing: map[string]bool{"models/ckpt_150/checkpoint-150": true}}
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(fs, invoker)

	raw := baseRaw()
	raw.CheckpointPath = "models/ckpt_150/checkpoint-150"

	res := l.Launch(context.Background(), raw, "")
	require.Error(t, res.Err)
	assert.Equal(t, StageCheckpoint, res.Stage)

	var ckErr *checkpoint.Error
	require.ErrorAs(t, res.Err, &ckErr)
	assert.Equal(t, checkpoint.KindBeyondBudget, ckErr.Kind)
	assert.Zero(t, invoker.CallCount(), "trainer must not be invoked after a failed validation step")
}

// Scenario: tuning with zero workers fails dispatch before any invocation.
func TestLaunchTuningWithoutWorkers(t *testing.T) {
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(nil, invoker)

	raw := baseRaw()
	raw.Tune = "true"
	raw.Workers = "0"

	res := l.Launch(context.Background(), raw, "")
	require.Error(t, res.Err)
	assert.Equal(t, StageDispatch, res.Stage)

	var dispErr *dispatch.Error
	require.ErrorAs(t, res.Err, &dispErr)
	assert.Zero(t, invoker.CallCount())
}

// Scenario: a memory budget below the floor fails planning regardless of the
// other fields.
func TestLaunchInsufficientMemoryBudget(t *testing.T) {
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(nil, invoker)

	raw := baseRaw()
	raw.ObjStoreMem = strconv.FormatInt(resource.MinObjStoreMem-1, 10)

	res := l.Launch(context.Background(), raw, "")
	require.Error(t, res.Err)
	assert.Equal(t, StagePlan, res.Stage)

	var resErr *resource.Error
	require.ErrorAs(t, res.Err, &resErr)
	assert.Equal(t, resource.KindInsufficientMemoryBudget, resErr.Kind)
	assert.Zero(t, invoker.CallCount())
}

func TestLaunchAssembleFailureShortCircuits(t *testing.T) {
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(nil, invoker)

	raw := baseRaw()
	raw.Env = ""

	res := l.Launch(context.Background(), raw, "")
	require.Error(t, res.Err)
	assert.Equal(t, StageAssemble, res.Stage)

	var cfgErr *runspec.ConfigError
	require.ErrorAs(t, res.Err, &cfgErr)
	assert.Equal(t, runspec.KindMissingRequiredField, cfgErr.Kind)
	assert.Zero(t, invoker.CallCount())
}

// Toggling tune alone changes only the mode: the invocation's spec-derived
// fields and resource plan are otherwise identical.
func TestLaunchModeIsFunctionOfToggleAlone(t *testing.T) {
	single := &testutil.FakeInvoker{}
	res := newTestLauncher(nil, single).Launch(context.Background(), baseRaw(), "")
	require.True(t, res.OK())

	sweep := &testutil.FakeInvoker{}
	raw := baseRaw()
	raw.Tune = "true"
	res = newTestLauncher(nil, sweep).Launch(context.Background(), raw, "")
	require.True(t, res.OK())

	a, b := single.Calls[0], sweep.Calls[0]
	assert.Equal(t, dispatch.SingleRun, a.Mode)
	assert.Equal(t, dispatch.TuningSweep, b.Mode)

	bSpec := *b.Spec
	bSpec.Tune = a.Spec.Tune
	assert.Equal(t, *a.Spec, bSpec, "only the toggle may differ between the specs")
	assert.Equal(t, *a.Plan, *b.Plan)
	assert.Nil(t, a.Checkpoint)
	assert.Nil(t, b.Checkpoint)
}

func TestLaunchTrainerFailure(t *testing.T) {
	invoker := &testutil.FakeInvoker{ExitCode: 3}
	l := newTestLauncher(nil, invoker)

	res := l.Launch(context.Background(), baseRaw(), "")
	require.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, StageTrainer, res.Stage)
	assert.Equal(t, 3, res.ExitCode)
}

func TestLaunchInterrupted(t *testing.T) {
	invoker := &testutil.FakeInvoker{Err: trainer.ErrInterrupted}
	l := newTestLauncher(nil, invoker)

	res := l.Launch(context.Background(), baseRaw(), "")
	assert.True(t, res.Interrupted)
	assert.False(t, res.OK())
	assert.Equal(t, StageTrainer, res.Stage)
}

func TestLaunchRunDirIsCollisionFree(t *testing.T) {
	invoker := &testutil.FakeInvoker{}
	l := newTestLauncher(nil, invoker)

	first := l.Launch(context.Background(), baseRaw(), "")
	second := l.Launch(context.Background(), baseRaw(), "")
	require.True(t, first.OK())
	require.True(t, second.OK())

	assert.NotEqual(t, first.RunDir, second.RunDir)
	assert.Contains(t, first.RunDir, "dqn_Env-v0_")
}

// Package launch is the top-level coordinator of one training launch:
// assemble the spec, plan resources, resolve the checkpoint, decide the
// mode, then invoke the external trainer exactly once.
package launch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cameleon-rl/rllaunch/internal/checkpoint"
	"github.com/cameleon-rl/rllaunch/internal/ctxlog"
	"github.com/cameleon-rl/rllaunch/internal/dispatch"
	"github.com/cameleon-rl/rllaunch/internal/resource"
	"github.com/cameleon-rl/rllaunch/internal/runspec"
	"github.com/cameleon-rl/rllaunch/internal/trainer"
)

// Stage identifies the pipeline step a launch result refers to.
type Stage string

const (
	StageAssemble   Stage = "assemble"
	StagePlan       Stage = "plan"
	StageCheckpoint Stage = "checkpoint"
	StageDispatch   Stage = "dispatch"
	StageTrainer    Stage = "trainer"
)

// Result is the outcome of one launch attempt. On validation failure Stage
// and Err identify the failing step and the trainer is never invoked; on a
// completed invocation ExitCode carries the trainer's exit status.
type Result struct {
	LaunchID    string
	Mode        dispatch.Mode
	RunDir      string
	Stage       Stage
	Err         error
	ExitCode    int
	Interrupted bool
}

// OK reports whether the launch validated, dispatched, and the trainer
// exited successfully.
func (r Result) OK() bool {
	return r.Err == nil && !r.Interrupted && r.ExitCode == 0
}

// Launcher owns one launch at a time. Both collaborators are injected: the
// filesystem for checkpoint probing and the trainer entry point itself.
type Launcher struct {
	FS      checkpoint.Statter
	Invoker trainer.Invoker
}

// New builds a launcher around its two external collaborators.
func New(fs checkpoint.Statter, invoker trainer.Invoker) *Launcher {
	return &Launcher{FS: fs, Invoker: invoker}
}

// Launch runs the full pipeline, fail-fast: the first error short-circuits
// with the failing stage recorded and no partial launch occurs. The trainer
// is invoked exactly once, only after every validation step has passed.
func (l *Launcher) Launch(ctx context.Context, raw runspec.Raw, overrideText string) Result {
	logger := ctxlog.FromContext(ctx)
	res := Result{LaunchID: uuid.NewString()}
	logger = logger.With("launch_id", res.LaunchID)
	ctx = ctxlog.WithLogger(ctx, logger)

	spec, err := runspec.Assemble(raw, overrideText)
	if err != nil {
		res.Stage, res.Err = StageAssemble, err
		return res
	}
	logger.Debug("Run spec assembled.", "env", spec.Env, "model", spec.Model)

	plan, err := resource.Resolve(spec)
	if err != nil {
		res.Stage, res.Err = StagePlan, err
		return res
	}
	logger.Debug("Resource plan resolved.", "workers", plan.Workers, "gpus", plan.GPUs, "framework", plan.Framework)

	ref, err := checkpoint.Resolve(spec, l.FS)
	if err != nil {
		res.Stage, res.Err = StageCheckpoint, err
		return res
	}
	if ref != nil {
		logger.Info("Resuming from checkpoint.", "path", ref.Path, "epoch", ref.Epoch)
	}

	mode, err := dispatch.Decide(spec, plan)
	if err != nil {
		res.Stage, res.Err = StageDispatch, err
		return res
	}
	res.Mode = mode
	res.RunDir = runDir(spec, res.LaunchID)

	exitCode, err := l.Invoker.Invoke(ctx, &trainer.Invocation{
		Spec:       spec,
		Plan:       plan,
		Checkpoint: ref,
		Mode:       mode,
		RunDir:     res.RunDir,
	})
	if err != nil {
		res.Stage = StageTrainer
		if errors.Is(err, trainer.ErrInterrupted) {
			res.Interrupted = true
		}
		res.Err = err
		return res
	}

	res.ExitCode = exitCode
	if exitCode != 0 {
		res.Stage = StageTrainer
		res.Err = fmt.Errorf("trainer exited with status %d", exitCode)
	}
	return res
}

// runDir derives a collision-free output directory for this launch under the
// declared outdir: <outdir>/<model>_<env>_<id8>.
func runDir(spec *runspec.RunSpec, launchID string) string {
	base := spec.Outdir
	if base == "" {
		base = "models"
	}
	leaf := fmt.Sprintf("%s_%s_%s", strings.ToLower(spec.Model), spec.Env, launchID[:8])
	return filepath.Join(base, leaf)
}

// Package trainer wraps the single external collaborator call of a launch:
// invoking the trainer entry point with the fully resolved run parameters.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/cameleon-rl/rllaunch/internal/checkpoint"
	"github.com/cameleon-rl/rllaunch/internal/ctxlog"
	"github.com/cameleon-rl/rllaunch/internal/dispatch"
	"github.com/cameleon-rl/rllaunch/internal/fsutil"
	"github.com/cameleon-rl/rllaunch/internal/override"
	"github.com/cameleon-rl/rllaunch/internal/resource"
	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// ErrInterrupted is returned when the trainer process is cut short by
// context cancellation (e.g. SIGINT) rather than exiting on its own.
var ErrInterrupted = errors.New("trainer invocation interrupted")

// Invocation is the fully resolved parameter tuple handed to the trainer.
// Checkpoint is nil for a fresh run. RunDir is the concrete output directory
// for this launch, already made collision-free by the orchestrator.
type Invocation struct {
	Spec       *runspec.RunSpec
	Plan       *resource.Plan
	Checkpoint *checkpoint.Ref
	Mode       dispatch.Mode
	RunDir     string
}

// Invoker abstracts the trainer entry point so the orchestrator can be
// exercised without spawning a process. Invoke blocks until the trainer
// exits and returns its exit status.
type Invoker interface {
	Invoke(ctx context.Context, inv *Invocation) (int, error)
}

// Args flattens the invocation into the trainer's named-parameter surface.
// The checkpoint-path flag is only present when the run resumes.
func Args(inv *Invocation) []string {
	spec := inv.Spec
	args := []string{
		"--num-epochs", strconv.Itoa(spec.Epochs),
		"--num-episodes", strconv.Itoa(spec.Episodes),
		"--num-timesteps", strconv.Itoa(spec.Timesteps),
		"--env-name", spec.Env,
		"--model-name", spec.Model,
		"--wrappers", spec.WrapperChain(),
		"--num-workers", strconv.Itoa(inv.Plan.Workers),
		"--num-gpus", strconv.Itoa(inv.Plan.GPUs),
		"--checkpoint-epochs", strconv.Itoa(spec.CheckpointEpochs),
		"--outdir", inv.RunDir,
	}
	if inv.Checkpoint != nil {
		args = append(args, "--checkpoint-path", inv.Checkpoint.Path)
	}
	args = append(args,
		"--framework", inv.Plan.Framework,
		"--tune", strconv.FormatBool(inv.Mode == dispatch.TuningSweep),
		"--ray-obj-store-mem", strconv.FormatInt(inv.Plan.ObjStoreMem, 10),
		"--config", override.Write(spec.ModelConfig),
		"--verbose", strconv.FormatBool(spec.Verbose),
	)
	return args
}

// ExecInvoker is the production Invoker: it spawns the trainer command and
// streams its output through.
type ExecInvoker struct {
	// Command is the trainer argv prefix, e.g. {"python3", "-m", "cameleon.train"}.
	Command []string
}

// NewExecInvoker builds the production invoker from an argv prefix.
func NewExecInvoker(command []string) (*ExecInvoker, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("trainer command cannot be empty")
	}
	return &ExecInvoker{Command: command}, nil
}

// Invoke runs the trainer once and blocks until it exits. The run directory
// is created if absent before the process starts; no other filesystem state
// is touched here.
func (e *ExecInvoker) Invoke(ctx context.Context, inv *Invocation) (int, error) {
	logger := ctxlog.FromContext(ctx)

	if err := fsutil.EnsureDir(inv.RunDir); err != nil {
		return -1, fmt.Errorf("failed to create run directory %s: %w", inv.RunDir, err)
	}

	argv := append(append([]string{}, e.Command[1:]...), Args(inv)...)
	cmd := exec.CommandContext(ctx, e.Command[0], argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info("Invoking trainer.", "command", e.Command[0], "mode", inv.Mode, "run_dir", inv.RunDir)
	logger.Debug("Trainer argument vector assembled.", "args", argv)

	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ErrInterrupted
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to start trainer: %w", err)
	}
	return 0, nil
}

// Package cli parses the command-line surface into an app.Config and maps
// launch outcomes onto process exit codes.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cameleon-rl/rllaunch/internal/app"
	"github.com/cameleon-rl/rllaunch/internal/launch"
	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes per failing stage, so callers can branch on the error family
// without parsing messages.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitConfig      = 2
	ExitResource    = 3
	ExitCheckpoint  = 4
	ExitDispatch    = 5
	ExitTrainer     = 6
	ExitInterrupted = 7
)

// ExitCodeFor maps a launch result onto the exit code contract above.
func ExitCodeFor(res *launch.Result) int {
	if res.OK() {
		return ExitOK
	}
	if res.Interrupted {
		return ExitInterrupted
	}
	switch res.Stage {
	case launch.StageAssemble:
		return ExitConfig
	case launch.StagePlan:
		return ExitResource
	case launch.StageCheckpoint:
		return ExitCheckpoint
	case launch.StageDispatch:
		return ExitDispatch
	default:
		return ExitTrainer
	}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("rllaunch", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
rllaunch - launch a distributed RL training run against an external trainer.

Usage:
  rllaunch [options]

A run is declared either entirely through flags, or through a run file
(-run-file, HCL or YAML) with flags overriding individual fields.

Options:
`)
		flagSet.PrintDefaults()
	}

	var raw runspec.Raw
	flagSet.StringVar(&raw.Env, "env-name", "", "Registered environment identifier. Required.")
	flagSet.StringVar(&raw.Model, "model-name", "", "Training algorithm name (DQN, APEX, PPO, A2C, A3C, IMPALA, SAC). Required.")
	flagSet.StringVar(&raw.Wrappers, "wrappers", "", "Comma-delimited observation wrapper chain, order-significant.")
	flagSet.StringVar(&raw.Epochs, "num-epochs", "0", "Epoch budget. 0 means unused.")
	flagSet.StringVar(&raw.Episodes, "num-episodes", "0", "Episode budget. 0 means unused.")
	flagSet.StringVar(&raw.Timesteps, "num-timesteps", "0", "Timestep budget. 0 means unused.")
	flagSet.StringVar(&raw.CheckpointEpochs, "checkpoint-epochs", "5", "Epochs between checkpoint writes.")
	flagSet.StringVar(&raw.Workers, "num-workers", "4", "Rollout worker count.")
	flagSet.StringVar(&raw.GPUs, "num-gpus", "0", "GPU count.")
	flagSet.StringVar(&raw.Framework, "framework", "torch", "Execution framework: 'tf2' or 'torch'.")
	flagSet.StringVar(&raw.Verbose, "verbose", "false", "Verbose trainer output.")
	flagSet.StringVar(&raw.ObjStoreMem, "ray-obj-store-mem", "3000000000", "Object-store memory budget in bytes.")
	flagSet.StringVar(&raw.Tune, "tune", "false", "Run a hyperparameter-tuning sweep instead of a single run.")
	flagSet.StringVar(&raw.Outdir, "outdir", "models", "Base output directory for run artifacts.")
	flagSet.StringVar(&raw.CheckpointPath, "checkpoint-path", "", "Checkpoint to resume from. Empty starts fresh.")

	overrideFlag := flagSet.String("config", "{}", "Model-architecture override block, e.g. \"{'model': {'conv_filters': [[16, [4, 4], 2]]}}\".")
	runFileFlag := flagSet.String("run-file", "", "Path to an HCL or YAML run file.")
	trainerFlag := flagSet.String("trainer", "", "Trainer entry point command. Defaults to 'cameleon-train'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var trainerCmd []string
	if *trainerFlag != "" {
		trainerCmd = strings.Fields(*trainerFlag)
	}

	// Record which flags the user actually passed so run-file merging never
	// clobbers an explicit choice.
	setFlags := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Raw:          raw,
		OverrideText: *overrideFlag,
		SetFlags:     setFlags,
		RunFile:      *runFileFlag,
		TrainerCmd:   trainerCmd,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}

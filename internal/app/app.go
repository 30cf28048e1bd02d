// Package app wires the launcher's collaborators together and drives one
// launch from configuration to trainer exit.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cameleon-rl/rllaunch/internal/checkpoint"
	"github.com/cameleon-rl/rllaunch/internal/ctxlog"
	"github.com/cameleon-rl/rllaunch/internal/launch"
	"github.com/cameleon-rl/rllaunch/internal/runfile"
	"github.com/cameleon-rl/rllaunch/internal/trainer"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	launcher *launch.Launcher
}

// NewApp is the constructor for the main application. Both external
// collaborators are injected so tests can run the full pipeline without a
// trainer process or real checkpoint files.
func NewApp(outW io.Writer, cfg *Config, invoker trainer.Invoker, fs checkpoint.Statter) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		launcher: launch.New(fs, invoker),
	}
}

// Run executes one launch. Run-file values are merged beneath explicit flags
// first; the launcher then owns the rest of the pipeline. The returned
// Result is valid whenever error is nil, including for failed launches.
func (a *App) Run(ctx context.Context) (*launch.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	raw := a.config.Raw
	overrideText := a.config.OverrideText

	if a.config.RunFile != "" {
		contents, err := runfile.Load(a.config.RunFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load run file: %w", err)
		}
		raw, overrideText = runfile.Merge(raw, overrideText, contents, a.config.SetFlags)
		a.logger.Debug("Run file merged.", "path", a.config.RunFile)
	}

	res := a.launcher.Launch(ctx, raw, overrideText)
	switch {
	case res.OK():
		a.logger.Info("Launch completed.", "launch_id", res.LaunchID, "mode", res.Mode, "run_dir", res.RunDir)
	case res.Interrupted:
		a.logger.Warn("Launch interrupted.", "launch_id", res.LaunchID)
	default:
		a.logger.Error("Launch failed.", "launch_id", res.LaunchID, "stage", res.Stage, "error", res.Err)
	}

	a.logger.Debug("App.Run method finished.")
	return &res, nil
}

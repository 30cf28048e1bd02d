package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cameleon-rl/rllaunch/internal/app"
	"github.com/cameleon-rl/rllaunch/internal/cli"
	"github.com/cameleon-rl/rllaunch/internal/fsutil"
	"github.com/cameleon-rl/rllaunch/internal/trainer"
)

// main is the entrypoint for the rllaunch application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	invoker, err := trainer.NewExecInvoker(appConfig.TrainerCmd)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	launcherApp := app.NewApp(outW, appConfig, invoker, fsutil.OSStatter{})
	res, err := launcherApp.Run(ctx)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitConfig, Message: err.Error()}
	}
	if !res.OK() {
		msg := fmt.Sprintf("launch failed at stage %q: %v", res.Stage, res.Err)
		if res.Interrupted {
			msg = "launch interrupted before the trainer exited"
		}
		return &cli.ExitError{Code: cli.ExitCodeFor(res), Message: msg}
	}
	return nil
}

package app

import "github.com/cameleon-rl/rllaunch/internal/runspec"

// DefaultTrainerCommand is the trainer entry point used when no -trainer
// override is given.
var DefaultTrainerCommand = []string{"cameleon-train"}

// Config holds everything an App instance needs to run one launch.
type Config struct {
	// Raw carries the run fields as declared on the command line, defaults
	// included. SetFlags records which flags the user passed explicitly so
	// run-file merging knows what must not be overridden.
	Raw          runspec.Raw
	OverrideText string
	SetFlags     map[string]bool

	RunFile    string
	TrainerCmd []string

	LogFormat string
	LogLevel  string
}

// NewConfig normalizes a Config, filling unset operational defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.TrainerCmd) == 0 {
		cfg.TrainerCmd = DefaultTrainerCommand
	}
	if cfg.SetFlags == nil {
		cfg.SetFlags = map[string]bool{}
	}
	return &cfg, nil
}

// Package dispatch decides the execution mode of a launch: one fixed
// configuration, or a hyperparameter-tuning sweep over many.
package dispatch

import (
	"fmt"

	"github.com/cameleon-rl/rllaunch/internal/resource"
	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// Mode is the terminal execution mode of a launch. Modeled as an enum rather
// than a boolean so future modes (e.g. evaluation-only) slot into the same
// dispatcher.
type Mode string

const (
	SingleRun   Mode = "single_run"
	TuningSweep Mode = "tuning_sweep"
)

// Error reports a mode/resource incompatibility.
type Error struct {
	Mode   Mode
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("dispatch error (%s): %s", e.Mode, e.Detail)
}

// Decide routes the run to its execution mode. The mode itself is a total
// function of the tune toggle alone, decided once per launch; a tuning sweep
// additionally requires at least one worker to carry concurrent trials.
func Decide(spec *runspec.RunSpec, plan *resource.Plan) (Mode, error) {
	if !spec.Tune {
		return SingleRun, nil
	}

	if plan.Workers < 1 {
		return "", &Error{
			Mode:   TuningSweep,
			Detail: "tuning is enabled but num-workers is 0; sweeps need at least one worker per concurrent trial",
		}
	}
	return TuningSweep, nil
}

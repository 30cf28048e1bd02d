// Package checkpoint resolves a declared checkpoint path into a validated
// reference, or establishes that the run starts fresh.
package checkpoint

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// epochSuffixRegex extracts the trailing integer segment of a checkpoint
// path, e.g. `models/ckpt_050/checkpoint-50` -> 50.
var epochSuffixRegex = regexp.MustCompile(`(\d+)$`)

// Kind discriminates checkpoint resolution failures.
type Kind string

const (
	KindNotFound        Kind = "checkpoint_not_found"
	KindUnparsableEpoch Kind = "unparsable_checkpoint_epoch"
	KindBeyondBudget    Kind = "checkpoint_beyond_budget"
	KindFilesystemProbe Kind = "filesystem_probe_failed"
)

// Error reports a missing, unparsable, or inconsistent checkpoint.
type Error struct {
	Kind   Kind
	Path   string
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("checkpoint error (%s): %s: %s", e.Kind, e.Path, e.Detail)
}

// Statter is the read-only filesystem collaborator used to probe for the
// checkpoint artifact. Production passes fsutil.OSStatter; tests fake it.
type Statter interface {
	Exists(path string) (bool, error)
}

// Ref is the resolved checkpoint reference. Constructed once per launch,
// immutable afterwards, and never persisted by the launcher.
type Ref struct {
	Path  string
	Epoch int
}

// Resolve determines whether the run resumes from a checkpoint. A spec with
// no checkpoint path yields (nil, nil): a fresh run. A declared path must
// exist, carry a parseable trailing epoch index, and sit within the epoch
// budget when one is set.
func Resolve(spec *runspec.RunSpec, fs Statter) (*Ref, error) {
	if spec.CheckpointPath == "" {
		return nil, nil
	}

	path := filepath.Clean(spec.CheckpointPath)
	exists, err := fs.Exists(path)
	if err != nil {
		return nil, &Error{Kind: KindFilesystemProbe, Path: path, Detail: err.Error()}
	}
	if !exists {
		return nil, &Error{Kind: KindNotFound, Path: path, Detail: "no checkpoint artifact at path"}
	}

	match := epochSuffixRegex.FindString(filepath.Base(path))
	if match == "" {
		return nil, &Error{Kind: KindUnparsableEpoch, Path: path, Detail: "no trailing integer epoch segment"}
	}
	epoch, err := strconv.Atoi(match)
	if err != nil {
		// Unreachable: the regex only matches digits.
		return nil, &Error{Kind: KindUnparsableEpoch, Path: path, Detail: err.Error()}
	}

	// Resuming past the declared budget is a configuration error, never
	// silently clamped.
	if spec.Epochs > 0 && epoch > spec.Epochs {
		return nil, &Error{
			Kind:   KindBeyondBudget,
			Path:   path,
			Detail: fmt.Sprintf("checkpoint epoch %d exceeds epoch budget %d", epoch, spec.Epochs),
		}
	}

	return &Ref{Path: path, Epoch: epoch}, nil
}

// Package runfile loads a declarative run file into the raw field set the
// assembler consumes. Two formats are supported: an HCL `run` block and a
// YAML mapping. CLI flags explicitly set by the user override run-file
// values; run-file values override flag defaults.
package runfile

import (
	"fmt"
	"path/filepath"

	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// Contents is a loaded run file: the raw fields it declares (absent fields
// are empty strings) plus the architecture override text, if any.
type Contents struct {
	Raw      runspec.Raw
	Override string
}

// Load reads a run file, picking the format by extension.
func Load(path string) (*Contents, error) {
	switch ext := filepath.Ext(path); ext {
	case ".hcl":
		return loadHCL(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported run file extension %q (want .hcl, .yaml, or .yml)", ext)
	}
}

// Merge overlays run-file contents onto the flag-derived fields. set reports
// which flags the user passed explicitly; those always win. Returns the
// merged raw fields and the effective override text.
func Merge(flags runspec.Raw, flagOverride string, file *Contents, set map[string]bool) (runspec.Raw, string) {
	merged := flags
	pick(&merged.Env, file.Raw.Env, "env-name", set)
	pick(&merged.Model, file.Raw.Model, "model-name", set)
	pick(&merged.Wrappers, file.Raw.Wrappers, "wrappers", set)
	pick(&merged.Epochs, file.Raw.Epochs, "num-epochs", set)
	pick(&merged.Episodes, file.Raw.Episodes, "num-episodes", set)
	pick(&merged.Timesteps, file.Raw.Timesteps, "num-timesteps", set)
	pick(&merged.CheckpointEpochs, file.Raw.CheckpointEpochs, "checkpoint-epochs", set)
	pick(&merged.Workers, file.Raw.Workers, "num-workers", set)
	pick(&merged.GPUs, file.Raw.GPUs, "num-gpus", set)
	pick(&merged.Framework, file.Raw.Framework, "framework", set)
	pick(&merged.Verbose, file.Raw.Verbose, "verbose", set)
	pick(&merged.ObjStoreMem, file.Raw.ObjStoreMem, "ray-obj-store-mem", set)
	pick(&merged.Tune, file.Raw.Tune, "tune", set)
	pick(&merged.Outdir, file.Raw.Outdir, "outdir", set)
	pick(&merged.CheckpointPath, file.Raw.CheckpointPath, "checkpoint-path", set)

	overrideText := flagOverride
	if file.Override != "" && !set["config"] {
		overrideText = file.Override
	}
	return merged, overrideText
}

func pick(dst *string, fileVal, flagName string, set map[string]bool) {
	if fileVal != "" && !set[flagName] {
		*dst = fileVal
	}
}

package runfile

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/cameleon-rl/rllaunch/internal/override"
)

// fileRoot decodes the top level of an HCL run file: exactly one run block.
type fileRoot struct {
	Runs   []*runBlock `hcl:"run,block"`
	Remain hcl.Body    `hcl:",remain"`
}

// runBlock mirrors the RunSpec surface. Pointer fields distinguish absent
// attributes from explicit zero values.
type runBlock struct {
	Name             string    `hcl:"name,label"`
	EnvName          *string   `hcl:"env_name"`
	ModelName        *string   `hcl:"model_name"`
	Wrappers         *string   `hcl:"wrappers"`
	NumEpochs        *int      `hcl:"num_epochs"`
	NumEpisodes      *int      `hcl:"num_episodes"`
	NumTimesteps     *int      `hcl:"num_timesteps"`
	CheckpointEpochs *int      `hcl:"checkpoint_epochs"`
	NumWorkers       *int      `hcl:"num_workers"`
	NumGPUs          *int      `hcl:"num_gpus"`
	Framework        *string   `hcl:"framework"`
	Verbose          *bool     `hcl:"verbose"`
	ObjStoreMem      *int64    `hcl:"ray_obj_store_mem"`
	Tune             *bool     `hcl:"tune"`
	Outdir           *string   `hcl:"outdir"`
	CheckpointPath   *string   `hcl:"checkpoint_path"`
	ModelConfig      cty.Value `hcl:"model_config,optional"`
}

// loadHCL parses and decodes a `run "name" { ... }` file.
func loadHCL(path string) (*Contents, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode run file %s: %w", path, diags)
	}

	if len(root.Runs) != 1 {
		return nil, fmt.Errorf("run file %s must declare exactly one run block, found %d", path, len(root.Runs))
	}
	run := root.Runs[0]

	c := &Contents{}
	setString(&c.Raw.Env, run.EnvName)
	setString(&c.Raw.Model, run.ModelName)
	setString(&c.Raw.Wrappers, run.Wrappers)
	setInt(&c.Raw.Epochs, run.NumEpochs)
	setInt(&c.Raw.Episodes, run.NumEpisodes)
	setInt(&c.Raw.Timesteps, run.NumTimesteps)
	setInt(&c.Raw.CheckpointEpochs, run.CheckpointEpochs)
	setInt(&c.Raw.Workers, run.NumWorkers)
	setInt(&c.Raw.GPUs, run.NumGPUs)
	setString(&c.Raw.Framework, run.Framework)
	setBool(&c.Raw.Verbose, run.Verbose)
	setInt64(&c.Raw.ObjStoreMem, run.ObjStoreMem)
	setBool(&c.Raw.Tune, run.Tune)
	setString(&c.Raw.Outdir, run.Outdir)
	setString(&c.Raw.CheckpointPath, run.CheckpointPath)

	if run.ModelConfig != cty.NilVal && !run.ModelConfig.IsNull() {
		// The override may be given either as override-literal text or as a
		// nested HCL expression; both normalize through the value model.
		if run.ModelConfig.Type() == cty.String {
			val, err := override.Parse(run.ModelConfig.AsString())
			if err != nil {
				return nil, fmt.Errorf("run file %s: invalid model_config: %w", path, err)
			}
			c.Override = override.Write(val)
		} else {
			c.Override = override.Write(run.ModelConfig)
		}
	}
	return c, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *string, src *int) {
	if src != nil {
		*dst = strconv.Itoa(*src)
	}
}

func setInt64(dst *string, src *int64) {
	if src != nil {
		*dst = strconv.FormatInt(*src, 10)
	}
}

func setBool(dst *string, src *bool) {
	if src != nil {
		*dst = strconv.FormatBool(*src)
	}
}

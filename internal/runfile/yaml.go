package runfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cameleon-rl/rllaunch/internal/override"
)

// yamlRun mirrors the RunSpec surface as a YAML mapping. Pointer fields
// distinguish absent keys from explicit zero values; the architecture
// override arrives as a nested mapping.
type yamlRun struct {
	EnvName          *string        `yaml:"env_name"`
	ModelName        *string        `yaml:"model_name"`
	Wrappers         *string        `yaml:"wrappers"`
	NumEpochs        *int           `yaml:"num_epochs"`
	NumEpisodes      *int           `yaml:"num_episodes"`
	NumTimesteps     *int           `yaml:"num_timesteps"`
	CheckpointEpochs *int           `yaml:"checkpoint_epochs"`
	NumWorkers       *int           `yaml:"num_workers"`
	NumGPUs          *int           `yaml:"num_gpus"`
	Framework        *string        `yaml:"framework"`
	Verbose          *bool          `yaml:"verbose"`
	ObjStoreMem      *int64         `yaml:"ray_obj_store_mem"`
	Tune             *bool          `yaml:"tune"`
	Outdir           *string        `yaml:"outdir"`
	CheckpointPath   *string        `yaml:"checkpoint_path"`
	ModelConfig      map[string]any `yaml:"model_config"`
}

// loadYAML reads a YAML run file.
func loadYAML(path string) (*Contents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file %s: %w", path, err)
	}

	var run yamlRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run file %s: %w", path, err)
	}

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

	if len(run.ModelConfig) > 0 {
		val, err := override.FromGo(run.ModelConfig)
		if err != nil {
			return nil, fmt.Errorf("run file %s: invalid model_config: %w", path, err)
		}
		c.Override = override.Write(val)
	}
	return c, nil
}

package runspec

import (
	"strconv"
	"strings"

	"github.com/cameleon-rl/rllaunch/internal/override"
)

// modelZoo is the closed algorithm set the trainer registry knows. Image-obs
// models train on pixel observations and therefore require a non-empty
// wrapper chain.
var modelZoo = map[string]struct{ imageObs bool }{
	"DQN":    {imageObs: true},
	"APEX":   {imageObs: true},
	"PPO":    {imageObs: false},
	"A2C":    {imageObs: false},
	"A3C":    {imageObs: false},
	"IMPALA": {imageObs: false},
	"SAC":    {imageObs: false},
}

// wrapperZoo is the known observation-transform set. Wrappers flagged with
// viewSize accept an optional ".N" agent-view-size suffix.
var wrapperZoo = map[string]struct{ viewSize bool }{
	"partial_obs":        {viewSize: true},
	"encoding_only":      {viewSize: false},
	"rgb_only":           {viewSize: false},
	"canniballs_one_hot": {viewSize: false},
}

// Assemble coerces the raw field text and the architecture override block
// into a validated RunSpec. It is a pure transform: no I/O, and identical
// inputs always produce an identical spec.
func Assemble(raw Raw, overrideText string) (*RunSpec, error) {
	env := strings.TrimSpace(raw.Env)
	if env == "" {
		return nil, &ConfigError{Kind: KindMissingRequiredField, Field: "env-name"}
	}

	model := strings.ToUpper(strings.TrimSpace(raw.Model))
	if model == "" {
		return nil, &ConfigError{Kind: KindMissingRequiredField, Field: "model-name"}
	}
	info, ok := modelZoo[model]
	if !ok {
		return nil, &ConfigError{Kind: KindUnknownModel, Field: "model-name", Detail: model}
	}

	epochs, err := parseCount("num-epochs", raw.Epochs)
	if err != nil {
		return nil, err
	}
	episodes, err := parseCount("num-episodes", raw.Episodes)
	if err != nil {
		return nil, err
	}
	timesteps, err := parseCount("num-timesteps", raw.Timesteps)
	if err != nil {
		return nil, err
	}
	// At most one budget drives the run; zero everywhere means run until
	// externally interrupted.
	driving := 0
	for _, b := range []int{epochs, episodes, timesteps} {
		if b > 0 {
			driving++
		}
	}
	if driving > 1 {
		return nil, &ConfigError{
			Kind:   KindAmbiguousBudget,
			Field:  "num-epochs/num-episodes/num-timesteps",
			Detail: "at most one budget may be non-zero",
		}
	}

	cadence, err := parseInt("checkpoint-epochs", raw.CheckpointEpochs)
	if err != nil {
		return nil, err
	}
	if cadence <= 0 {
		return nil, &ConfigError{Kind: KindInvalidCadence, Field: "checkpoint-epochs", Detail: raw.CheckpointEpochs}
	}

	workers, err := parseInt("num-workers", raw.Workers)
	if err != nil {
		return nil, err
	}
	gpus, err := parseInt("num-gpus", raw.GPUs)
	if err != nil {
		return nil, err
	}

	objStoreMem, err := parseInt64("ray-obj-store-mem", raw.ObjStoreMem)
	if err != nil {
		return nil, err
	}

	verbose, err := parseBool("verbose", raw.Verbose)
	if err != nil {
		return nil, err
	}
	tune, err := parseBool("tune", raw.Tune)
	if err != nil {
		return nil, err
	}

	wrappers, err := parseWrappers(raw.Wrappers)
	if err != nil {
		return nil, err
	}
	if info.imageObs && len(wrappers) == 0 {
		return nil, &ConfigError{
			Kind:   KindWrappersRequired,
			Field:  "wrappers",
			Detail: model + " requires preprocessed observations",
		}
	}

	modelConfig, oerr := override.Parse(overrideText)
	if oerr != nil {
		return nil, &ConfigError{Kind: KindMalformedOverride, Field: "config", Detail: oerr.Error()}
	}

	return &RunSpec{
		Env:              env,
		Model:            model,
		Wrappers:         wrappers,
		Epochs:           epochs,
		Episodes:         episodes,
		Timesteps:        timesteps,
		CheckpointEpochs: cadence,
		Workers:          workers,
		GPUs:             gpus,
		Framework:        strings.ToLower(strings.TrimSpace(raw.Framework)),
		Verbose:          verbose,
		ObjStoreMem:      objStoreMem,
		Tune:             tune,
		Outdir:           strings.TrimSpace(raw.Outdir),
		CheckpointPath:   strings.TrimSpace(raw.CheckpointPath),
		ModelConfig:      modelConfig,
	}, nil
}

// parseWrappers splits the comma-delimited wrapper chain, preserving order
// and rejecting empty segments and unknown transform names.
func parseWrappers(field string) ([]Wrapper, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}

	var chain []Wrapper
	for _, seg := range strings.Split(field, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, &ConfigError{Kind: KindEmptyWrapperSegment, Field: "wrappers", Detail: field}
		}

		name, sizeStr, hasSize := strings.Cut(seg, ".")
		info, ok := wrapperZoo[name]
		if !ok {
			return nil, &ConfigError{Kind: KindUnknownWrapper, Field: "wrappers", Detail: name}
		}

		w := Wrapper{Name: name}
		if hasSize {
			if !info.viewSize {
				return nil, &ConfigError{
					Kind:   KindUnknownWrapper,
					Field:  "wrappers",
					Detail: name + " does not accept a view-size suffix",
				}
			}
			size, err := strconv.Atoi(sizeStr)
			if err != nil || size <= 0 {
				return nil, &ConfigError{Kind: KindInvalidNumber, Field: "wrappers", Detail: seg}
			}
			w.ViewSize = size
		}
		chain = append(chain, w)
	}
	return chain, nil
}

// parseCount parses a non-negative budget value; empty means zero (unused).
func parseCount(field, s string) (int, error) {
	n, err := parseInt(field, s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ConfigError{Kind: KindInvalidNumber, Field: field, Detail: s}
	}
	return n, nil
}

func parseInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ConfigError{Kind: KindInvalidNumber, Field: field, Detail: s}
	}
	return n, nil
}

func parseInt64(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ConfigError{Kind: KindInvalidNumber, Field: field, Detail: s}
	}
	return n, nil
}

// parseBool accepts the full truthy/falsy vocabulary the original launch
// surface allowed, case-insensitive. Empty means false.
func parseBool(field, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return false, nil
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	default:
		return false, &ConfigError{Kind: KindInvalidBool, Field: field, Detail: s}
	}
}

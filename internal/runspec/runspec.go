// Package runspec defines the immutable declarative description of one
// training launch and the assembler that builds it from raw field text.
package runspec

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Raw carries every run field exactly as declared on the outer surface (CLI
// flags or a run file), before any type coercion. The assembler owns all
// parsing; nothing upstream interprets these strings.
type Raw struct {
	Env              string
	Model            string
	Wrappers         string
	Epochs           string
	Episodes         string
	Timesteps        string
	CheckpointEpochs string
	Workers          string
	GPUs             string
	Framework        string
	Verbose          string
	ObjStoreMem      string
	Tune             string
	Outdir           string
	CheckpointPath   string
}

// Wrapper is one named observation-preprocessing transform in the wrapper
// chain. ViewSize is the optional agent view size some wrappers accept via a
// ".N" suffix; zero means unset.
type Wrapper struct {
	Name     string
	ViewSize int
}

// String renders the wrapper back to its declared form.
func (w Wrapper) String() string {
	if w.ViewSize > 0 {
		return fmt.Sprintf("%s.%d", w.Name, w.ViewSize)
	}
	return w.Name
}

// RunSpec is the full declarative description of one experiment. It is
// constructed once per launch by Assemble and never mutated afterwards.
type RunSpec struct {
	Env              string
	Model            string
	Wrappers         []Wrapper
	Epochs           int
	Episodes         int
	Timesteps        int
	CheckpointEpochs int
	Workers          int
	GPUs             int
	Framework        string
	Verbose          bool
	ObjStoreMem      int64
	Tune             bool
	Outdir           string
	CheckpointPath   string
	ModelConfig      cty.Value
}

// WrapperChain renders the ordered wrapper chain as the comma-joined string
// the external trainer expects.
func (s *RunSpec) WrapperChain() string {
	out := ""
	for i, w := range s.Wrappers {
		if i > 0 {
			out += ","
		}
		out += w.String()
	}
	return out
}

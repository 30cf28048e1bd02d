// Package resource resolves a run's declared worker, GPU, and object-store
// numbers into the advisory resource request handed to the external trainer.
package resource

import (
	"fmt"

	"github.com/cameleon-rl/rllaunch/internal/runspec"
)

// MinObjStoreMem is the minimum viable object-store budget in bytes. Below
// this a single environment observation batch cannot be staged, so the
// trainer's workers would stall immediately.
const MinObjStoreMem int64 = 128 << 20

// supportedFrameworks is the execution-framework set the trainer accepts.
// Lazy-graph tf was retired upstream; tf2 and torch remain.
var supportedFrameworks = map[string]bool{
	"tf2":   true,
	"torch": true,
}

// Kind discriminates resource planning failures.
type Kind string

const (
	KindNegativeResource         Kind = "negative_resource"
	KindInsufficientMemoryBudget Kind = "insufficient_memory_budget"
	KindUnsupportedFramework     Kind = "unsupported_framework"
)

// Error reports an invalid resource quantity in the run declaration.
type Error struct {
	Kind   Kind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("resource error (%s): %s", e.Kind, e.Detail)
}

// Plan is the resolved resource request. It is a pure function of the
// RunSpec and carries no lifecycle of its own; the trainer is solely
// responsible for actually allocating what it describes.
type Plan struct {
	Workers     int
	GPUs        int
	ObjStoreMem int64
	Framework   string
}

// Resolve validates the declared resource numbers and produces the plan.
// Deterministic; no I/O.
func Resolve(spec *runspec.RunSpec) (*Plan, error) {
	if spec.Workers < 0 {
		return nil, &Error{Kind: KindNegativeResource, Detail: fmt.Sprintf("num-workers = %d", spec.Workers)}
	}
	if spec.GPUs < 0 {
		return nil, &Error{Kind: KindNegativeResource, Detail: fmt.Sprintf("num-gpus = %d", spec.GPUs)}
	}

	if spec.ObjStoreMem < MinObjStoreMem {
		return nil, &Error{
			Kind:   KindInsufficientMemoryBudget,
			Detail: fmt.Sprintf("ray-obj-store-mem = %d, need at least %d bytes", spec.ObjStoreMem, MinObjStoreMem),
		}
	}

	if !supportedFrameworks[spec.Framework] {
		detail := fmt.Sprintf("framework = %q, supported: tf2, torch", spec.Framework)
		if spec.Framework == "tf" {
			detail = `framework "tf" is no longer supported, use "tf2"`
		}
		return nil, &Error{Kind: KindUnsupportedFramework, Detail: detail}
	}

	return &Plan{
		Workers:     spec.Workers,
		GPUs:        spec.GPUs,
		ObjStoreMem: spec.ObjStoreMem,
		Framework:   spec.Framework,
	}, nil
}

// Package override implements the strongly-typed model-architecture override
// value. Overrides arrive as a compact literal text block, e.g.
//
//	{'model': {'conv_filters': [[16, [4, 4], 2], [32, [3, 3], 2]]}}
//
// and are parsed into a cty.Value so the rest of the launcher works with a
// typed nested structure instead of raw text. Write renders a value back to
// the literal form the external trainer consumes, and Parse(Write(v)) is
// value-preserving.
package override

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Error describes a rejected override block. Pos is a byte offset into the
// original text.
type Error struct {
	Pos    int
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("malformed override at offset %d: %s", e.Pos, e.Detail)
}

// Empty is the override value used when no architecture override is declared.
func Empty() cty.Value {
	return cty.EmptyObjectVal
}

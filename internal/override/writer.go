package override

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Write renders an override value back to the literal text form the external
// trainer consumes. Mapping keys are emitted in sorted order so the output is
// deterministic; Parse(Write(v)) is value-preserving for any parseable v.
func Write(v cty.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v cty.Value) {
	if v == cty.NilVal || v.IsNull() {
		sb.WriteString("None")
		return
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		if v.True() {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case ty == cty.Number:
		// Text with precision -1 renders integral values without a decimal
		// point and fractional values with the shortest exact form.
		sb.WriteString(v.AsBigFloat().Text('f', -1))
	case ty == cty.String:
		writeString(sb, v.AsString())
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		sb.WriteByte('[')
		first := true
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if !first {
				sb.WriteString(", ")
			}
			first = false
			writeValue(sb, ev)
		}
		sb.WriteByte(']')
	case ty.IsObjectType() || ty.IsMapType():
		attrs := v.AsValueMap()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeString(sb, k)
			sb.WriteString(": ")
			writeValue(sb, attrs[k])
		}
		sb.WriteByte('}')
	default:
		// Capsule and unknown values never originate from Parse or FromGo.
		sb.WriteString(fmt.Sprintf("%#v", v))
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
}

package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		expectErr bool
		expected  cty.Value
	}{
		{
			name:     "empty text is the empty object",
			text:     "",
			expected: cty.EmptyObjectVal,
		},
		{
			name:     "empty braces",
			text:     "{}",
			expected: cty.EmptyObjectVal,
		},
		{
			name: "conv filter stack",
			text: "{'model': {'conv_filters': [[16, [4, 4], 2], [32, [3, 3], 2]]}}",
			expected: cty.ObjectVal(map[string]cty.Value{
				"model": cty.ObjectVal(map[string]cty.Value{
					"conv_filters": cty.TupleVal([]cty.Value{
						cty.TupleVal([]cty.Value{
							cty.NumberIntVal(16),
							cty.TupleVal([]cty.Value{cty.NumberIntVal(4), cty.NumberIntVal(4)}),
							cty.NumberIntVal(2),
						}),
						cty.TupleVal([]cty.Value{
							cty.NumberIntVal(32),
							cty.TupleVal([]cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(3)}),
							cty.NumberIntVal(2),
						}),
					}),
				}),
			}),
		},
		{
			name: "double quotes and mixed scalars",
			text: `{"lr": 0.0005, "double_q": True, "framework": "torch", "seed": None}`,
			expected: cty.ObjectVal(map[string]cty.Value{
				"lr":        cty.NumberFloatVal(0.0005),
				"double_q":  cty.True,
				"framework": cty.StringVal("torch"),
				"seed":      cty.NullVal(cty.DynamicPseudoType),
			}),
		},
		{
			name: "tuple syntax and trailing commas",
			text: "{'dims': (84, 84,), 'layers': [256, 256,],}",
			expected: cty.ObjectVal(map[string]cty.Value{
				"dims":   cty.TupleVal([]cty.Value{cty.NumberIntVal(84), cty.NumberIntVal(84)}),
				"layers": cty.TupleVal([]cty.Value{cty.NumberIntVal(256), cty.NumberIntVal(256)}),
			}),
		},
		{
			name: "negative and exponent numbers",
			text: "{'min': -1, 'eps': 1e-5}",
			expected: cty.ObjectVal(map[string]cty.Value{
				"min": cty.NumberIntVal(-1),
				"eps": cty.NumberFloatVal(1e-5),
			}),
		},
		{
			name:     "duplicate key last wins",
			text:     "{'a': 1, 'a': 2}",
			expected: cty.ObjectVal(map[string]cty.Value{"a": cty.NumberIntVal(2)}),
		},
		{
			name:     "escaped quote inside string",
			text:     `{'name': 'it\'s'}`,
			expected: cty.ObjectVal(map[string]cty.Value{"name": cty.StringVal("it's")}),
		},
		{
			name:      "error - unbalanced brace",
			text:      "{'model': {'conv_filters': [[16]]}",
			expectErr: true,
		},
		{
			name:      "error - unbalanced bracket",
			text:      "{'filters': [[16, 4}",
			expectErr: true,
		},
		{
			name:      "error - unquoted key",
			text:      "{model: 1}",
			expectErr: true,
		},
		{
			name:      "error - bare word value",
			text:      "{'a': banana}",
			expectErr: true,
		},
		{
			name:      "error - trailing junk",
			text:      "{'a': 1} extra",
			expectErr: true,
		},
		{
			name:      "error - unterminated string",
			text:      "{'a': 'oops}",
			expectErr: true,
		},
		{
			name:      "error - missing colon",
			text:      "{'a' 1}",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Parse(tc.text)

			if tc.expectErr {
				require.Error(t, err)
				var oerr *Error
				require.ErrorAs(t, err, &oerr)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expected.RawEquals(val), "parsed value mismatch: got %#v, want %#v", val, tc.expected)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	texts := []string{
		"{}",
		"{'model': {'conv_filters': [[16, [4, 4], 2], [32, [3, 3], 2]]}}",
		`{"lr": 0.0005, "double_q": True, "target": None, "net": "cnn"}`,
		"{'nested': {'deep': {'deeper': [1, [2, [3]]]}}}",
		"{'escape': 'a\\'b\\\\c'}",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			first, err := Parse(text)
			require.NoError(t, err)

			rendered := Write(first)
			second, err := Parse(rendered)
			require.NoError(t, err, "re-parsing rendered text %q", rendered)

			assert.True(t, first.RawEquals(second), "round trip changed the value: %q -> %q", text, rendered)
		})
	}
}

func TestWriteDeterministicKeyOrder(t *testing.T) {
	val := cty.ObjectVal(map[string]cty.Value{
		"b": cty.NumberIntVal(2),
		"a": cty.NumberIntVal(1),
		"c": cty.NumberIntVal(3),
	})
	require.Equal(t, "{'a': 1, 'b': 2, 'c': 3}", Write(val))
}

func TestFromGo(t *testing.T) {
	val, err := FromGo(map[string]any{
		"conv_filters": []any{[]any{16, []any{4, 4}, 2}},
		"double_q":     true,
		"lr":           0.0005,
		"net":          "cnn",
		"seed":         nil,
	})
	require.NoError(t, err)

	expected := cty.ObjectVal(map[string]cty.Value{
		"conv_filters": cty.TupleVal([]cty.Value{
			cty.TupleVal([]cty.Value{
				cty.NumberIntVal(16),
				cty.TupleVal([]cty.Value{cty.NumberIntVal(4), cty.NumberIntVal(4)}),
				cty.NumberIntVal(2),
			}),
		}),
		"double_q": cty.True,
		"lr":       cty.NumberFloatVal(0.0005),
		"net":      cty.StringVal("cnn"),
		"seed":     cty.NullVal(cty.DynamicPseudoType),
	})
	assert.True(t, expected.RawEquals(val), "got %#v", val)

	_, err = FromGo(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
}

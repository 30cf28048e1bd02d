package override

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Parse reads an override literal into a cty.Value. An empty block ("" or
// "{}") yields the empty object. The grammar mirrors what the trainer's own
// literal evaluator accepts: braces for mappings with quoted keys, brackets
// or parentheses for sequences, single- or double-quoted strings, numbers,
// True/False/None, and optional trailing commas.
func Parse(text string) (cty.Value, error) {
	if strings.TrimSpace(text) == "" {
		return Empty(), nil
	}

	p := &parser{src: text}
	p.skipSpace()
	val, err := p.parseValue()
	if err != nil {
		return cty.NilVal, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return cty.NilVal, p.errorf("unexpected trailing input %q", p.rest())
	}
	return val, nil
}

// parser is a single-pass recursive-descent reader over the override text.
type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.pos, Detail: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) rest() string {
	tail := p.src[p.pos:]
	if len(tail) > 16 {
		tail = tail[:16] + "..."
	}
	return tail
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseValue() (cty.Value, error) {
	c, ok := p.peek()
	if !ok {
		return cty.NilVal, p.errorf("unexpected end of input")
	}

	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseSequence('[', ']')
	case c == '(':
		return p.parseSequence('(', ')')
	case c == '\'' || c == '"':
		s, err := p.parseString()
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(s), nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

// parseObject reads `{ 'key': value, ... }` into a cty object. A duplicate
// key overwrites the earlier entry, matching the source literal semantics.
func (p *parser) parseObject() (cty.Value, error) {
	p.pos++ // consume '{'
	attrs := map[string]cty.Value{}

	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return cty.NilVal, p.errorf("unterminated mapping, expected '}'")
		}
		if c == '}' {
			p.pos++
			return cty.ObjectVal(attrs), nil
		}

		if c != '\'' && c != '"' {
			return cty.NilVal, p.errorf("mapping key must be a quoted string, got %q", p.rest())
		}
		key, err := p.parseString()
		if err != nil {
			return cty.NilVal, err
		}

		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return cty.NilVal, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return cty.NilVal, err
		}
		attrs[key] = val

		p.skipSpace()
		c, ok = p.peek()
		switch {
		case !ok:
			return cty.NilVal, p.errorf("unterminated mapping, expected '}'")
		case c == ',':
			p.pos++
		case c == '}':
			// Closing brace handled at the top of the loop.
		default:
			return cty.NilVal, p.errorf("expected ',' or '}' in mapping, got %q", p.rest())
		}
	}
}

// parseSequence reads a bracketed or parenthesized element list into a cty
// tuple. Both forms carry order-significant elements of mixed type.
func (p *parser) parseSequence(open, close byte) (cty.Value, error) {
	p.pos++ // consume opener
	var elems []cty.Value

	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return cty.NilVal, p.errorf("unterminated sequence, expected %q", string(close))
		}
		if c == close {
			p.pos++
			return cty.TupleVal(elems), nil
		}

		val, err := p.parseValue()
		if err != nil {
			return cty.NilVal, err
		}
		elems = append(elems, val)

		p.skipSpace()
		c, ok = p.peek()
		switch {
		case !ok:
			return cty.NilVal, p.errorf("unterminated sequence, expected %q", string(close))
		case c == ',':
			p.pos++
		case c == close:
			// Closer handled at the top of the loop.
		default:
			return cty.NilVal, p.errorf("expected ',' or %q in sequence, got %q", string(close), p.rest())
		}
	}
}

func (p *parser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf("unterminated escape sequence")
			}
			p.pos++
			switch esc := p.src[p.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return "", p.errorf("unsupported escape sequence %q", "\\"+string(esc))
			}
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string literal")
}

func (p *parser) parseNumber() (cty.Value, error) {
	start := p.pos
	if c, _ := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}

	lit := p.src[start:p.pos]
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return cty.NumberIntVal(n), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.pos = start
		return cty.NilVal, p.errorf("invalid number literal %q", lit)
	}
	return cty.NumberFloatVal(f), nil
}

// parseKeyword accepts the literal words the trainer's evaluator knows:
// True, False, and None (case-insensitive in lowercase form for convenience).
func (p *parser) parseKeyword() (cty.Value, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}

	switch word := p.src[start:p.pos]; word {
	case "True", "true":
		return cty.True, nil
	case "False", "false":
		return cty.False, nil
	case "None", "null":
		return cty.NullVal(cty.DynamicPseudoType), nil
	default:
		p.pos = start
		return cty.NilVal, p.errorf("unexpected token %q", p.rest())
	}
}

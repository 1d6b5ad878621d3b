package literal

import (
	"strconv"
	"strings"
)

const maxDepth = 256

// Parse parses src as a single Python literal.
//
// Lists become []any, tuples Tuple, dictionaries *Dict, integers int64,
// floats float64, strings string, True and False bool and None nil.
func Parse(src string) (any, error) {
	return parse(src, false)
}

// ParseWithRefs is like Parse but also accepts dynamic references in the
// value slot of a domain leaf and xmlid placeholders anywhere. Both are
// returned as Ref.
func ParseWithRefs(src string) (any, error) {
	return parse(src, true)
}

func parse(src string, refs bool) (any, error) {
	toks, err := tokenize(src, refs)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errorAt(t.pos, "unexpected %q after value", t.text)
	}
	return v, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(punct string) error {
	t := p.advance()
	if !t.is(punct) {
		return errorAt(t.pos, "expected %q, found %q", punct, describe(t))
	}
	return nil
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return t.text
}

func (p *parser) value(depth int) (any, error) {
	if depth > maxDepth {
		return nil, errorAt(p.peek().pos, "nesting too deep")
	}
	t := p.advance()
	switch t.kind {
	case tokString:
		s := t.str
		for p.peek().kind == tokString {
			s += p.advance().str
		}
		return s, nil
	case tokInt, tokFloat:
		return number(t, false)
	case tokRef:
		return Ref(t.text), nil
	case tokIdent:
		switch t.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, errorAt(t.pos, "unexpected name %q", t.text)
	case tokPunct:
		switch t.text {
		case "-", "+":
			n := p.advance()
			if n.kind != tokInt && n.kind != tokFloat {
				return nil, errorAt(n.pos, "expected number after %q", t.text)
			}
			return number(n, t.text == "-")
		case "[":
			items, _, err := p.sequence("]", depth)
			return items, err
		case "(":
			items, trailingComma, err := p.sequence(")", depth)
			if err != nil {
				return nil, err
			}
			if len(items) == 1 && !trailingComma {
				return items[0], nil
			}
			return Tuple(items), nil
		case "{":
			return p.dict(depth)
		}
	}
	return nil, errorAt(t.pos, "unexpected %q", describe(t))
}

// sequence parses comma separated values up to the closing punctuation.
func (p *parser) sequence(closing string, depth int) ([]any, bool, error) {
	items := []any{}
	trailingComma := false
	for !p.peek().is(closing) {
		v, err := p.value(depth + 1)
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
		trailingComma = false
		if p.peek().is(",") {
			p.advance()
			trailingComma = true
			continue
		}
		break
	}
	if err := p.expect(closing); err != nil {
		return nil, false, err
	}
	return items, trailingComma, nil
}

func (p *parser) dict(depth int) (*Dict, error) {
	d := &Dict{}
	for !p.peek().is("}") {
		key, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		switch key.(type) {
		case *Dict, []any:
			return nil, errorAt(p.peek().pos, "unhashable dictionary key")
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		val, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		d.Set(key, val)
		if !p.peek().is(",") {
			break
		}
		p.advance()
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return d, nil
}

func number(t token, negative bool) (any, error) {
	text := strings.ReplaceAll(t.text, "_", "")
	if t.kind == tokInt && len(text) > 1 && text[0] == '0' && isDigit(text[1]) && strings.Trim(text, "0") != "" {
		return nil, errorAt(t.pos, "leading zeros in decimal integer %q", t.text)
	}
	if negative {
		text = "-" + text
	}
	if t.kind == tokInt {
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, errorAt(t.pos, "invalid integer %q", t.text)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errorAt(t.pos, "invalid float %q", t.text)
	}
	return f, nil
}

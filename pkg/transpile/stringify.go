package transpile

import (
	"fmt"
	"strconv"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/literal"
)

// fragment is a partially rendered expression. conn holds the connective of
// a bare and/or combination and is empty for atoms (leaves, negations).
type fragment struct {
	text string
	conn string
}

// in renders f as an operand of a combination joined by conn. A nested
// combination keeps its text bare only when it shares the connective.
func (f fragment) in(conn string) string {
	if f.conn == "" || f.conn == conn {
		return f.text
	}
	return "(" + f.text + ")"
}

// StringifyAttr converts an attrs value into a Python boolean expression.
//
// Constants (True, False, 1, 0 and their text forms) are returned as is.
// Sequences are converted with ToDomain, normalized and folded from the
// tail. Errors wrap domain.ErrMalformedDomain, domain.ErrUnbalancedDomain
// or domain.ErrUnsupportedPattern.
func StringifyAttr(v any) (string, error) {
	if s, ok := constant(v); ok {
		return s, nil
	}
	var d domain.Domain
	switch x := v.(type) {
	case domain.Domain:
		d = x
	case []any, literal.Tuple:
		var err error
		if d, err = ToDomain(x); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: unexpected value %s", domain.ErrMalformedDomain, literal.Repr(v))
	}
	if len(d) == 0 {
		return "", fmt.Errorf("%w: empty domain", domain.ErrMalformedDomain)
	}
	return fold(NormalizeDomain(d))
}

func fold(d domain.Domain) (string, error) {
	stack := make([]fragment, 0, len(d))
	pop := func() fragment {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f
	}
	for i := len(d) - 1; i >= 0; i-- {
		switch t := d[i].(type) {
		case domain.Leaf:
			s, err := StringifyLeaf(t)
			if err != nil {
				return "", err
			}
			stack = append(stack, fragment{text: s})
		case domain.Operator:
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: operator %q at position %d has no operand", domain.ErrUnbalancedDomain, t, i)
			}
			if t == domain.OpNot {
				stack = append(stack, fragment{text: "(not (" + pop().text + "))"})
				continue
			}
			conn := t.Keyword()
			left := pop()
			if len(stack) == 0 {
				// Dangling connective, kept for inputs relying on it.
				stack = append(stack, fragment{text: left.in(conn) + " " + conn})
				continue
			}
			right := pop()
			stack = append(stack, fragment{
				text: left.in(conn) + " " + conn + " " + right.in(conn),
				conn: conn,
			})
		}
	}
	if len(stack) != 1 {
		return "", fmt.Errorf("%w: %d expressions left after folding", domain.ErrUnbalancedDomain, len(stack))
	}
	return stack[0].text, nil
}

// constant reports whether v is a boolean-like constant and returns its text.
func constant(v any) (string, bool) {
	switch x := v.(type) {
	case bool:
		return literal.Repr(x), true
	case int:
		if x == 0 || x == 1 {
			return strconv.Itoa(x), true
		}
	case int64:
		if x == 0 || x == 1 {
			return strconv.FormatInt(x, 10), true
		}
	case float64:
		if x == 0 || x == 1 {
			return literal.Repr(x), true
		}
	case string:
		switch x {
		case "True", "False", "1", "0":
			return x, true
		}
	}
	return "", false
}

// ToDomain converts a parsed sequence into a Domain. Elements must be the
// operator strings '&', '|', '!' or three-element leaves.
func ToDomain(v any) (domain.Domain, error) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case literal.Tuple:
		items = x
	default:
		return nil, fmt.Errorf("%w: expected a list, got %s", domain.ErrMalformedDomain, literal.Repr(v))
	}
	d := make(domain.Domain, 0, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case string:
			op, ok := domain.ParseOperator(x)
			if !ok {
				return nil, fmt.Errorf("%w: unknown operator %q at position %d", domain.ErrMalformedDomain, x, i)
			}
			d = append(d, op)
		case domain.Leaf:
			d = append(d, x)
		case []any:
			leaf, err := toLeaf(x, i)
			if err != nil {
				return nil, err
			}
			d = append(d, leaf)
		case literal.Tuple:
			leaf, err := toLeaf(x, i)
			if err != nil {
				return nil, err
			}
			d = append(d, leaf)
		default:
			return nil, fmt.Errorf("%w: unexpected term %s at position %d", domain.ErrMalformedDomain, literal.Repr(item), i)
		}
	}
	return d, nil
}

func toLeaf(parts []any, pos int) (domain.Leaf, error) {
	if len(parts) != 3 {
		return domain.Leaf{}, fmt.Errorf("%w: leaf at position %d has %d elements", domain.ErrMalformedDomain, pos, len(parts))
	}
	return domain.Leaf{
		Operand:    textOf(parts[0]),
		Comparator: textOf(parts[1]),
		Value:      parts[2],
	}, nil
}

// textOf renders a leaf operand or comparator: strings verbatim, anything
// else as Python source.
func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return literal.Repr(v)
}

// ConvertDomain parses the text of a single domain or constant, with dynamic
// references allowed, and converts it with StringifyAttr.
func ConvertDomain(text string) (string, error) {
	v, err := literal.ParseWithRefs(text)
	if err != nil {
		return "", err
	}
	return StringifyAttr(v)
}

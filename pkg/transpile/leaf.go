package transpile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/literal"
)

var wildcard = regexp.MustCompile(`[_%]`)

// StringifyLeaf renders one comparison as a Python expression.
//
// It returns an error wrapping domain.ErrUnsupportedPattern when a like
// comparison carries a literal value containing '_' or '%'.
func StringifyLeaf(leaf domain.Leaf) (string, error) {
	op := leaf.Comparator
	left := leaf.Operand
	right := leaf.Value

	switch {
	case op == "=?":
		value := literal.Repr(right)
		return fmt.Sprintf("(%s in [None, False] or %s == %s)", value, left, value), nil
	case op == "=":
		if isFalsy(right) {
			return "not " + left, nil
		}
		if b, ok := right.(bool); ok && b {
			return left, nil
		}
		op = "=="
	case op == "!=":
		if isFalsy(right) {
			return left, nil
		}
		if b, ok := right.(bool); ok && b {
			return "not " + left, nil
		}
	case strings.Contains(op, "like"):
		return stringifyLike(left, op, right)
	}
	return fmt.Sprintf("%s %s %s", left, op, literal.Repr(right)), nil
}

func stringifyLike(left, op string, right any) (string, error) {
	if s, ok := right.(string); ok && wildcard.MatchString(s) {
		return "", fmt.Errorf("%w: %q in (%s, %s, %s)", domain.ErrUnsupportedPattern, s, left, op, literal.Quote(s))
	}
	lower := strings.Contains(op, "ilike")
	switch op {
	case "=like", "=ilike":
		op = "=="
	case "like", "ilike":
		op = "in"
	default:
		op = "not in"
	}

	// Substring tests read "value in field".
	lhs, rhs := left, literal.Repr(right)
	if op != "==" {
		lhs, rhs = rhs, lhs
	}
	if lower {
		return fmt.Sprintf("%s.lower() %s %s.lower()", lhs, op, rhs), nil
	}
	return fmt.Sprintf("%s %s %s", lhs, op, rhs), nil
}

// isFalsy reports whether v is False or an empty list.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case bool:
		return !x
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}

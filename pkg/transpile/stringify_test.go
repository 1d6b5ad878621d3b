package transpile

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/dsl"
	"github.com/aretw0/viewmig/pkg/literal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyAttr(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"equals false", []any{literal.Tuple{"a", "=", false}}, "not a"},
		{"equals true", []any{literal.Tuple{"a", "=", true}}, "a"},
		{"not equals false", []any{literal.Tuple{"a", "!=", false}}, "a"},
		{"not equals true", []any{literal.Tuple{"a", "!=", true}}, "not a"},
		{"and", domain.Domain{domain.OpAnd, leafA, leafB}, "a == 1 and b == 2"},
		{"or with nested and", domain.Domain{domain.OpOr, leafA, domain.OpAnd, leafB, leafC},
			"a == 1 or (b == 2 and c == 3)"},
		{"implicit conjunction", domain.Domain{leafA, leafB, leafC}, "a == 1 and b == 2 and c == 3"},
		{"or then implicit and", domain.Domain{domain.OpOr, leafA, leafB, leafC}, "(a == 1 or b == 2) and c == 3"},
		{"two ors under and", domain.Domain{domain.OpAnd, domain.OpOr, leafA, leafB, domain.OpOr, leafC, leafD},
			"(a == 1 or b == 2) and (c == 3 or d == 4)"},
		{"chained or", domain.Domain{domain.OpOr, domain.OpOr, leafA, leafB, leafC}, "a == 1 or b == 2 or c == 3"},
		{"nested chain keeps inner grouping", domain.Domain{domain.OpOr, leafA, domain.OpAnd, leafB, domain.OpAnd, leafC, leafD},
			"a == 1 or (b == 2 and c == 3 and d == 4)"},
		{"not", domain.Domain{domain.OpNot, leafA}, "(not (a == 1))"},
		{"not of or", domain.Domain{domain.OpNot, domain.OpOr, leafA, leafB}, "(not (a == 1 or b == 2))"},
		{"or with not", domain.Domain{domain.OpOr, domain.OpNot, leafA, leafB}, "(not (a == 1)) or b == 2"},
		{"dangling connective", domain.Domain{domain.OpOr, leafA}, "a == 1 or"},
		{"single leaf", []any{literal.Tuple{"state", "=", "draft"}}, "state == 'draft'"},
		{"leaf as list", []any{[]any{"state", "in", []any{"a", "b"}}}, "state in ['a', 'b']"},
		{"constant true", true, "True"},
		{"constant false", false, "False"},
		{"constant one", int64(1), "1"},
		{"constant zero", int64(0), "0"},
		{"constant text", "True", "True"},
		{"constant zero text", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringifyAttr(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringifyAttr_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want error
	}{
		{"wildcard", []any{literal.Tuple{"name", "like", "%foo%"}}, domain.ErrUnsupportedPattern},
		{"lone operator", []any{"!"}, domain.ErrUnbalancedDomain},
		{"operator after leaf", []any{literal.Tuple{"a", "=", int64(1)}, "!"}, domain.ErrUnbalancedDomain},
		{"empty", []any{}, domain.ErrMalformedDomain},
		{"unknown operator", []any{"^", literal.Tuple{"a", "=", int64(1)}}, domain.ErrMalformedDomain},
		{"short leaf", []any{literal.Tuple{"a", "="}}, domain.ErrMalformedDomain},
		{"other text", "yes", domain.ErrMalformedDomain},
		{"other number", int64(2), domain.ErrMalformedDomain},
		{"dictionary", &literal.Dict{}, domain.ErrMalformedDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StringifyAttr(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConvertDomain(t *testing.T) {
	got, err := ConvertDomain("['|', ('partner_id', '=', False), ('partner_id', '!=', parent_id)]")
	require.NoError(t, err)
	assert.Equal(t, "not partner_id or partner_id != parent_id", got)

	got, err = ConvertDomain("True")
	require.NoError(t, err)
	assert.Equal(t, "True", got)

	_, err = ConvertDomain("[('a', '=',")
	assert.ErrorIs(t, err, domain.ErrMalformedLiteral)
}

// The generated expressions are evaluated with a small boolean evaluator
// and compared to a direct evaluation of the domain.
func TestStringifyAttr_EvaluatesLikeDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fields := []string{"a", "b", "c", "d"}

	for i := 0; i < 300; i++ {
		d := randomDomain(rng, fields)
		expr, err := StringifyAttr(d)
		require.NoError(t, err, "%v", d)

		for mask := 0; mask < 1<<len(fields); mask++ {
			env := map[string]bool{}
			for j, f := range fields {
				env[f] = mask&(1<<j) != 0
			}
			want := evalDomain(t, NormalizeDomain(d), env)
			got := evalExpr(t, expr, env)
			require.Equal(t, want, got, "domain %v rendered as %q with %v", d, expr, env)
		}
	}
}

// randomDomain builds top-level terms joined implicitly, each a random
// prefix tree over boolean leaves.
func randomDomain(rng *rand.Rand, fields []string) domain.Domain {
	var d domain.Domain
	var tree func(depth int)
	tree = func(depth int) {
		if depth > 3 || rng.Intn(3) == 0 {
			cmp := []string{"=", "!="}[rng.Intn(2)]
			d = append(d, domain.Leaf{Operand: fields[rng.Intn(len(fields))], Comparator: cmp, Value: rng.Intn(2) == 0})
			return
		}
		switch rng.Intn(3) {
		case 0:
			d = append(d, domain.OpNot)
			tree(depth + 1)
		case 1:
			d = append(d, domain.OpAnd)
			tree(depth + 1)
			tree(depth + 1)
		default:
			d = append(d, domain.OpOr)
			tree(depth + 1)
			tree(depth + 1)
		}
	}
	for n := 1 + rng.Intn(3); n > 0; n-- {
		tree(0)
	}
	return d
}

func evalDomain(t *testing.T, d domain.Domain, env map[string]bool) bool {
	pos := 0
	var eval func() bool
	eval = func() bool {
		term := d[pos]
		pos++
		switch x := term.(type) {
		case domain.Operator:
			switch x {
			case domain.OpNot:
				return !eval()
			case domain.OpAnd:
				l, r := eval(), eval()
				return l && r
			default:
				l, r := eval(), eval()
				return l || r
			}
		case domain.Leaf:
			v := env[x.Operand] == x.Value.(bool)
			if x.Comparator == "!=" {
				return !v
			}
			return v
		}
		t.Fatalf("unexpected term %v", term)
		return false
	}
	res := eval()
	require.Equal(t, len(d), pos)
	return res
}

// evalExpr evaluates the and/or/not subset of Python with bare names.
func evalExpr(t *testing.T, expr string, env map[string]bool) bool {
	r := strings.NewReplacer("(", " ( ", ")", " ) ")
	toks := strings.Fields(r.Replace(expr))
	pos := 0
	peek := func() string {
		if pos < len(toks) {
			return toks[pos]
		}
		return ""
	}
	var orExpr func() bool
	var notExpr func() bool
	atom := func() bool {
		tok := peek()
		pos++
		if tok == "(" {
			v := orExpr()
			require.Equal(t, ")", peek(), expr)
			pos++
			return v
		}
		v, ok := env[tok]
		require.True(t, ok, fmt.Sprintf("unknown name %q in %q", tok, expr))
		return v
	}
	notExpr = func() bool {
		if peek() == "not" {
			pos++
			return !notExpr()
		}
		return atom()
	}
	andExpr := func() bool {
		v := notExpr()
		for peek() == "and" {
			pos++
			rhs := notExpr()
			v = v && rhs
		}
		return v
	}
	orExpr = func() bool {
		v := andExpr()
		for peek() == "or" {
			pos++
			rhs := andExpr()
			v = v || rhs
		}
		return v
	}
	v := orExpr()
	require.Equal(t, len(toks), pos, expr)
	return v
}

func TestStringifyAttr_BuiltDomains(t *testing.T) {
	d := dsl.Build(
		dsl.Or(dsl.Eq("state", "draft"), dsl.Not(dsl.Eq("locked", true))),
		dsl.In("move_type", "out_invoice", "out_refund"),
	)
	got, err := StringifyAttr(d)
	require.NoError(t, err)
	assert.Equal(t, "(state == 'draft' or (not (locked))) and move_type in ['out_invoice', 'out_refund']", got)
}

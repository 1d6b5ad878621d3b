package transpile

import (
	"testing"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/literal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaf(operand, comparator string, value any) domain.Leaf {
	return domain.Leaf{Operand: operand, Comparator: comparator, Value: value}
}

func TestStringifyLeaf(t *testing.T) {
	tests := []struct {
		name string
		leaf domain.Leaf
		want string
	}{
		{"equals false", newLeaf("a", "=", false), "not a"},
		{"equals empty list", newLeaf("a", "=", []any{}), "not a"},
		{"equals true", newLeaf("a", "=", true), "a"},
		{"equals text", newLeaf("state", "=", "draft"), "state == 'draft'"},
		{"equals zero", newLeaf("qty", "=", int64(0)), "qty == 0"},
		{"equals reference", newLeaf("partner_id", "=", literal.Ref("parent_id")), "partner_id == parent_id"},
		{"not equals false", newLeaf("a", "!=", false), "a"},
		{"not equals true", newLeaf("a", "!=", true), "not a"},
		{"not equals text", newLeaf("state", "!=", "done"), "state != 'done'"},
		{"greater", newLeaf("amount", ">", 1.5), "amount > 1.5"},
		{"in list", newLeaf("state", "in", []any{"draft", "sent"}), "state in ['draft', 'sent']"},
		{"not in list", newLeaf("state", "not in", []any{"done"}), "state not in ['done']"},
		{"in placeholder", newLeaf("groups_id", "in", []any{literal.Ref("%(base.group_user)d")}), "groups_id in [%(base.group_user)d]"},
		{"optional equals text", newLeaf("company_id", "=?", "x"), "('x' in [None, False] or company_id == 'x')"},
		{"optional equals reference", newLeaf("company_id", "=?", literal.Ref("company_id")),
			"(company_id in [None, False] or company_id == company_id)"},
		{"like", newLeaf("name", "like", "foo"), "'foo' in name"},
		{"not like", newLeaf("name", "not like", "foo"), "'foo' not in name"},
		{"ilike", newLeaf("name", "ilike", "Foo"), "'Foo'.lower() in name.lower()"},
		{"not ilike", newLeaf("name", "not ilike", "Foo"), "'Foo'.lower() not in name.lower()"},
		{"equal like", newLeaf("code", "=like", "ABC"), "code == 'ABC'"},
		{"equal ilike", newLeaf("code", "=ilike", "abc"), "code.lower() == 'abc'.lower()"},
		{"like with reference", newLeaf("name", "ilike", literal.Ref("partner_name")), "partner_name.lower() in name.lower()"},
		{"quote in text", newLeaf("name", "=", "it's"), `name == "it's"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringifyLeaf(tt.leaf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringifyLeaf_Wildcards(t *testing.T) {
	for _, l := range []domain.Leaf{
		newLeaf("name", "like", "%foo%"),
		newLeaf("name", "ilike", "foo_bar"),
		newLeaf("name", "=like", "a%"),
		newLeaf("name", "not ilike", "_"),
	} {
		_, err := StringifyLeaf(l)
		assert.ErrorIs(t, err, domain.ErrUnsupportedPattern, l.Comparator)
	}
}

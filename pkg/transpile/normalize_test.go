package transpile

import (
	"testing"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/stretchr/testify/assert"
)

var (
	leafA = domain.Leaf{Operand: "a", Comparator: "=", Value: int64(1)}
	leafB = domain.Leaf{Operand: "b", Comparator: "=", Value: int64(2)}
	leafC = domain.Leaf{Operand: "c", Comparator: "=", Value: int64(3)}
	leafD = domain.Leaf{Operand: "d", Comparator: "=", Value: int64(4)}
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Domain
		want domain.Domain
	}{
		{"empty", domain.Domain{}, domain.Domain{}},
		{"single leaf", domain.Domain{leafA}, domain.Domain{leafA}},
		{"single operator", domain.Domain{domain.OpNot}, domain.Domain{domain.OpNot}},
		{"implicit pair", domain.Domain{leafA, leafB}, domain.Domain{domain.OpAnd, leafA, leafB}},
		{"implicit triple", domain.Domain{leafA, leafB, leafC},
			domain.Domain{domain.OpAnd, domain.OpAnd, leafA, leafB, leafC}},
		{"explicit or", domain.Domain{domain.OpOr, leafA, leafB}, domain.Domain{domain.OpOr, leafA, leafB}},
		{"or followed by leaf", domain.Domain{domain.OpOr, leafA, leafB, leafC},
			domain.Domain{domain.OpAnd, domain.OpOr, leafA, leafB, leafC}},
		{"negation then leaf", domain.Domain{domain.OpNot, leafA, leafB},
			domain.Domain{domain.OpAnd, domain.OpNot, leafA, leafB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDomain(tt.in))
		})
	}
}

func TestNormalizeDomain_Idempotent(t *testing.T) {
	for _, d := range []domain.Domain{
		{leafA, leafB, leafC, leafD},
		{domain.OpOr, leafA, domain.OpAnd, leafB, leafC},
		{domain.OpNot, leafA, domain.OpOr, leafB, leafC, leafD},
	} {
		once := NormalizeDomain(d)
		assert.Equal(t, once, NormalizeDomain(once))
	}
}

func TestNormalizeDomain_DoesNotMutateInput(t *testing.T) {
	in := domain.Domain{leafA, leafB}
	_ = NormalizeDomain(in)
	assert.Equal(t, domain.Domain{leafA, leafB}, in)
}

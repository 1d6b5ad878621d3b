package dsl

import "github.com/aretw0/viewmig/pkg/domain"

// Expr is a domain fragment that renders to prefix terms.
type Expr interface {
	appendTo(d domain.Domain) domain.Domain
}

type leafExpr domain.Leaf

func (l leafExpr) appendTo(d domain.Domain) domain.Domain {
	return append(d, domain.Leaf(l))
}

type opExpr struct {
	op    domain.Operator
	items []Expr
}

func (o opExpr) appendTo(d domain.Domain) domain.Domain {
	for i := 1; i < len(o.items); i++ {
		d = append(d, o.op)
	}
	for _, it := range o.items {
		d = it.appendTo(d)
	}
	return d
}

type notExpr struct {
	inner Expr
}

func (n notExpr) appendTo(d domain.Domain) domain.Domain {
	return n.inner.appendTo(append(d, domain.OpNot))
}

// Leaf creates a comparison with an arbitrary comparator.
func Leaf(operand, comparator string, value any) Expr {
	return leafExpr{Operand: operand, Comparator: comparator, Value: value}
}

// Eq creates an equality comparison.
func Eq(operand string, value any) Expr { return Leaf(operand, "=", value) }

// Ne creates an inequality comparison.
func Ne(operand string, value any) Expr { return Leaf(operand, "!=", value) }

// In creates a membership comparison.
func In(operand string, values ...any) Expr {
	return Leaf(operand, "in", append([]any{}, values...))
}

// NotIn creates a negated membership comparison.
func NotIn(operand string, values ...any) Expr {
	return Leaf(operand, "not in", append([]any{}, values...))
}

// And joins exprs with '&'. A single expression is returned unchanged.
func And(exprs ...Expr) Expr { return join(domain.OpAnd, exprs) }

// Or joins exprs with '|'. A single expression is returned unchanged.
func Or(exprs ...Expr) Expr { return join(domain.OpOr, exprs) }

// Not negates expr.
func Not(expr Expr) Expr { return notExpr{inner: expr} }

func join(op domain.Operator, exprs []Expr) Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}
	return opExpr{op: op, items: exprs}
}

// Build renders exprs as a domain. Top-level expressions are left
// implicitly conjoined, the way they are usually written by hand.
func Build(exprs ...Expr) domain.Domain {
	d := domain.Domain{}
	for _, e := range exprs {
		d = e.appendTo(d)
	}
	return d
}

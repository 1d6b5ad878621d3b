package domain

// Operator is a prefix boolean connective inside a domain.
type Operator string

const (
	OpAnd Operator = "&"
	OpOr  Operator = "|"
	OpNot Operator = "!"
)

// Arity returns the number of operands the operator consumes.
func (o Operator) Arity() int {
	if o == OpNot {
		return 1
	}
	return 2
}

// Keyword returns the boolean keyword used when the operator is rendered.
func (o Operator) Keyword() string {
	switch o {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	}
	return ""
}

// ParseOperator reports whether s names one of the three domain operators.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpAnd, OpOr, OpNot:
		return op, true
	}
	return "", false
}

// Leaf is a single comparison: (operand, comparator, value).
//
// Operand is the field path as written in the domain. Value holds the
// parsed right-hand literal and may be a dynamic reference.
type Leaf struct {
	Operand    string
	Comparator string
	Value      any
}

// Term is an element of a Domain: either an Operator or a Leaf.
type Term interface {
	isTerm()
}

func (Operator) isTerm() {}
func (Leaf) isTerm()     {}

// Domain is a list of terms in prefix (Polish) notation.
// Adjacent top-level terms are implicitly conjoined.
type Domain []Term

// Leaves returns the number of leaves in the domain.
func (d Domain) Leaves() int {
	n := 0
	for _, t := range d {
		if _, ok := t.(Leaf); ok {
			n++
		}
	}
	return n
}

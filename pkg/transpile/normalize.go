package transpile

import "github.com/aretw0/viewmig/pkg/domain"

// NormalizeDomain returns d with every implicit top-level conjunction made
// explicit by prepending '&' operators. Domains of length zero or one are
// returned unchanged, and so are domains that are already fully specified.
func NormalizeDomain(d domain.Domain) domain.Domain {
	if len(d) <= 1 {
		return d
	}
	result := make(domain.Domain, 0, len(d)+len(d)/2)
	expected := 1
	for _, term := range d {
		if expected == 0 {
			result = append(domain.Domain{domain.OpAnd}, result...)
			expected = 1
		}
		switch t := term.(type) {
		case domain.Operator:
			expected += t.Arity() - 1
		case domain.Leaf:
			expected--
		}
		result = append(result, term)
	}
	return result
}

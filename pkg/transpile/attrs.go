package transpile

import (
	"fmt"
	"strings"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/literal"
)

// AttrValue is one converted attribute.
type AttrValue struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// AttrSet is the ordered result of converting an attrs dictionary.
type AttrSet []AttrValue

// Get returns the expression of the named attribute.
func (s AttrSet) Get(name string) (string, bool) {
	for _, a := range s {
		if a.Name == name {
			return a.Expr, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present.
func (s AttrSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Map returns the set as a name to expression map.
func (s AttrSet) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, a := range s {
		m[a.Name] = a.Expr
	}
	return m
}

var entities = strings.NewReplacer("&lt;", "<", "&gt;", ">")

// GetNewAttrs converts the text of an attrs attribute into one expression
// per recognized attribute, in dictionary order.
//
// Text that does not look like a dictionary yields an empty set. Text that
// looks like one but does not parse yields an error wrapping
// domain.ErrMalformedLiteral. Keys outside domain.AttributeNames are ignored.
func GetNewAttrs(raw string) (AttrSet, error) {
	text := strings.TrimSpace(entities.Replace(raw))
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return AttrSet{}, nil
	}
	v, err := literal.ParseWithRefs(text)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(*literal.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: attrs is not a dictionary", domain.ErrMalformedLiteral)
	}

	set := AttrSet{}
	for _, item := range dict.Items {
		name, ok := item.Key.(string)
		if !ok || !domain.IsAttributeName(name) {
			continue
		}
		expr, err := StringifyAttr(item.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		set = append(set, AttrValue{Name: name, Expr: expr})
	}
	return set, nil
}

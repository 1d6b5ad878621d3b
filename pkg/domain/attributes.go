package domain

// Attribute names that replace the legacy attrs dictionary, in canonical order.
const (
	AttrInvisible       = "invisible"
	AttrRequired        = "required"
	AttrReadonly        = "readonly"
	AttrColumnInvisible = "column_invisible"
)

// AttributeNames lists the recognized attributes in canonical order.
var AttributeNames = []string{AttrInvisible, AttrRequired, AttrReadonly, AttrColumnInvisible}

// IsAttributeName reports whether name is one of AttributeNames.
func IsAttributeName(name string) bool {
	for _, n := range AttributeNames {
		if n == name {
			return true
		}
	}
	return false
}

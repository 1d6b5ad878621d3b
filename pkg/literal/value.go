package literal

// Ref is a dynamic reference kept verbatim: a field name such as parent_id
// or an xmlid placeholder such as %(base.group_user)d. It prints unquoted.
type Ref string

// Tuple is a parenthesized sequence.
type Tuple []any

// Item is one key/value pair of a Dict.
type Item struct {
	Key   any
	Value any
}

// Dict is a dictionary literal. Items keep their source order; a repeated
// key keeps the position of its first occurrence and the last value.
type Dict struct {
	Items []Item
}

// Len returns the number of items.
func (d *Dict) Len() int {
	return len(d.Items)
}

func (d *Dict) index(key any) int {
	for i, it := range d.Items {
		if equalKeys(it.Key, key) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (d *Dict) Get(key any) (any, bool) {
	if i := d.index(key); i >= 0 {
		return d.Items[i].Value, true
	}
	return nil, false
}

// Set replaces the value under key, or appends a new item.
func (d *Dict) Set(key, value any) {
	if i := d.index(key); i >= 0 {
		d.Items[i].Value = value
		return
	}
	d.Items = append(d.Items, Item{Key: key, Value: value})
}

// Map converts the dictionary into plain Go values: string-keyed maps,
// []any for lists and tuples, and strings for references. Items with a
// non-string key are dropped.
func (d *Dict) Map() map[string]any {
	m := make(map[string]any, len(d.Items))
	for _, it := range d.Items {
		if k, ok := it.Key.(string); ok {
			m[k] = Plain(it.Value)
		}
	}
	return m
}

// Plain converts a parsed value into plain Go values, see Dict.Map.
func Plain(v any) any {
	switch x := v.(type) {
	case *Dict:
		return x.Map()
	case Tuple:
		return plainSlice(x)
	case []any:
		return plainSlice(x)
	case Ref:
		return string(x)
	}
	return v
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Plain(v)
	}
	return out
}

func equalKeys(a, b any) bool {
	switch x := a.(type) {
	case string, bool, int64, float64, nil, Ref:
		return a == b
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalKeys(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}

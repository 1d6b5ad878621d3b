package literal

import "strings"

const (
	indentUnit = "    "
	lineWidth  = 79
)

// Format pretty-prints v. Containers that do not fit on one line are
// expanded with one element per line and a trailing comma. A top-level
// dictionary is always expanded. Keys keep their insertion order.
func Format(v any) string {
	var b strings.Builder
	writeFormatted(&b, v, 0, true)
	return b.String()
}

func writeFormatted(b *strings.Builder, v any, depth int, top bool) {
	flat := Repr(v)
	prefix := strings.Repeat(indentUnit, depth)
	if !top && len(prefix)+len(flat) <= lineWidth {
		b.WriteString(flat)
		return
	}
	switch x := v.(type) {
	case *Dict:
		if len(x.Items) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for _, it := range x.Items {
			b.WriteString(prefix + indentUnit)
			b.WriteString(Repr(it.Key))
			b.WriteString(": ")
			writeFormatted(b, it.Value, depth+1, false)
			b.WriteString(",\n")
		}
		b.WriteString(prefix + "}")
	case []any:
		writeFormattedSeq(b, "[", "]", x, depth)
	case Tuple:
		writeFormattedSeq(b, "(", ")", x, depth)
	default:
		b.WriteString(flat)
	}
}

func writeFormattedSeq(b *strings.Builder, open, closing string, items []any, depth int) {
	if len(items) == 0 {
		b.WriteString(open + closing)
		return
	}
	prefix := strings.Repeat(indentUnit, depth)
	b.WriteString(open + "\n")
	for _, it := range items {
		b.WriteString(prefix + indentUnit)
		writeFormatted(b, it, depth+1, false)
		b.WriteString(",\n")
	}
	b.WriteString(prefix + closing)
}

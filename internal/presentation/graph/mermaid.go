// Package graph draws domains as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/transpile"
)

// Overlay marks leaves to highlight, by operand name.
type Overlay struct {
	Fields []string
}

// GenerateMermaid produces a Mermaid flowchart of the operator tree of d.
// The domain is normalized first, so implicit conjunctions show up as
// explicit and nodes. Shapes:
// - and / or: ((Circle))
// - not: {Rhombus}
// - leaf: [Rectangle], labelled with its converted expression
func GenerateMermaid(d domain.Domain, overlay *Overlay) (string, error) {
	g := &builder{terms: transpile.NormalizeDomain(d)}
	g.sb.WriteString("graph TD\n")

	if len(g.terms) == 0 {
		return "", fmt.Errorf("%w: empty domain", domain.ErrMalformedDomain)
	}
	if _, err := g.node(); err != nil {
		return "", err
	}
	if g.pos != len(g.terms) {
		return "", fmt.Errorf("%w: %d terms left after the tree", domain.ErrUnbalancedDomain, len(g.terms)-g.pos)
	}

	if overlay != nil && len(overlay.Fields) > 0 {
		g.sb.WriteString("\n    %% Overlay Styles\n")
		g.sb.WriteString("    classDef field fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		for _, id := range g.leafIDs(overlay.Fields) {
			fmt.Fprintf(&g.sb, "    class %s field;\n", id)
		}
	}
	return g.sb.String(), nil
}

type builder struct {
	terms  domain.Domain
	pos    int
	seq    int
	leaves []leafNode
	sb     strings.Builder
}

type leafNode struct {
	id      string
	operand string
}

// node emits the subtree starting at the current position and returns its ID.
func (g *builder) node() (string, error) {
	if g.pos >= len(g.terms) {
		return "", fmt.Errorf("%w: operator is missing an operand", domain.ErrUnbalancedDomain)
	}
	t := g.terms[g.pos]
	g.pos++
	g.seq++
	id := fmt.Sprintf("n%d", g.seq)

	switch t := t.(type) {
	case domain.Leaf:
		text, err := transpile.StringifyLeaf(t)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&g.sb, "    %s[\"%s\"]\n", id, sanitizeLabel(text))
		g.leaves = append(g.leaves, leafNode{id: id, operand: t.Operand})
	case domain.Operator:
		if t == domain.OpNot {
			fmt.Fprintf(&g.sb, "    %s{\"not\"}\n", id)
		} else {
			fmt.Fprintf(&g.sb, "    %s((\"%s\"))\n", id, t.Keyword())
		}
		for i := 0; i < t.Arity(); i++ {
			child, err := g.node()
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&g.sb, "    %s --> %s\n", id, child)
		}
	}
	return id, nil
}

func (g *builder) leafIDs(fields []string) []string {
	var ids []string
	for _, l := range g.leaves {
		for _, f := range fields {
			if l.operand == f || strings.HasPrefix(l.operand, f+".") {
				ids = append(ids, l.id)
				break
			}
		}
	}
	return ids
}

func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

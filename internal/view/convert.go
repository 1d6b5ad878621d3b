package view

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/viewmig/pkg/domain"
	"github.com/aretw0/viewmig/pkg/transpile"
	"github.com/beevik/etree"
)

// Kinds of converted nodes.
const (
	KindAttrs          = "attrs"
	KindAttrsOverride  = "attrs-override"
	KindStates         = "states"
	KindStatesOverride = "states-override"
)

// Change describes one converted node.
type Change struct {
	Kind   string `json:"kind"`
	Line   string `json:"node"` // short description of the node, e.g. field[@name='partner_id']
	Before string `json:"before"`
	After  string `json:"after"`
}

// Result lists the changes applied to a document.
type Result struct {
	Changes []Change
}

// Changed reports whether the document was modified.
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// Preview renders the changes for a confirmation prompt.
func (r *Result) Preview() string {
	var b strings.Builder
	for i, c := range r.Changes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- %s %s\n%s\n+++\n%s\n", c.Kind, c.Line, c.Before, c.After)
	}
	return b.String()
}

// Convert parses content, converts it and serializes it back. When nothing
// needs converting the original content is returned untouched.
func Convert(content string) (string, *Result, error) {
	doc, err := Parse(content)
	if err != nil {
		return "", nil, err
	}
	res, err := ConvertDocument(doc)
	if err != nil {
		return "", nil, err
	}
	if !res.Changed() {
		return content, res, nil
	}
	out, err := Serialize(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize view: %w", err)
	}
	return out, res, nil
}

// ConvertDocument rewrites every attrs and states modifier of doc in place.
// The first conversion error aborts the whole document, leaving it partly
// rewritten; callers are expected to discard it.
func ConvertDocument(doc *etree.Document) (*Result, error) {
	c := &converter{res: &Result{}}

	withAttrs := doc.FindElements("//*[@attrs]")
	attrsOverrides := doc.FindElements("//attribute[@name='attrs']")
	withStates := doc.FindElements("//*[@states]")
	statesOverrides := doc.FindElements("//attribute[@name='states']")

	for _, el := range withAttrs {
		if err := c.convertAttrs(el); err != nil {
			return nil, err
		}
	}
	for _, el := range attrsOverrides {
		if err := c.convertAttrsOverride(el); err != nil {
			return nil, err
		}
	}
	for _, el := range withStates {
		c.convertStates(el)
	}
	for _, el := range statesOverrides {
		c.convertStatesOverride(el)
	}
	return c.res, nil
}

type converter struct {
	res *Result
}

func (c *converter) record(kind string, el *etree.Element, before string, after ...etree.Token) {
	c.res.Changes = append(c.res.Changes, Change{
		Kind:   kind,
		Line:   describe(el),
		Before: before,
		After:  snippet(after...),
	})
}

// describe names an element by its tag and its most telling attribute.
func describe(el *etree.Element) string {
	for _, key := range []string{"name", "string", "id", "expr"} {
		if v := el.SelectAttrValue(key, ""); v != "" {
			return fmt.Sprintf("%s[@%s='%s']", el.Tag, key, v)
		}
	}
	return el.Tag
}

// mergeWithExisting combines an expression already present on the node with
// the one converted from attrs.
func mergeWithExisting(old, converted string) string {
	switch strings.TrimSpace(old) {
	case "":
		return converted
	case "True", "1":
		return "True or (" + converted + ")"
	case "False", "0":
		return "False or (" + converted + ")"
	}
	return "(" + old + ") or (" + converted + ")"
}

func (c *converter) convertAttrs(el *etree.Element) error {
	before := snippet(el)
	attrs, err := transpile.GetNewAttrs(el.SelectAttrValue("attrs", ""))
	if err != nil {
		return fmt.Errorf("%s: %w", describe(el), err)
	}

	type pair struct{ key, value string }
	var rebuilt []pair
	for _, a := range el.Attr {
		key := a.FullKey()
		switch {
		case key == "attrs":
			for _, na := range attrs {
				value := na.Expr
				if prev := el.SelectAttr(na.Name); prev != nil {
					value = mergeWithExisting(prev.Value, value)
				}
				rebuilt = append(rebuilt, pair{na.Name, value})
			}
		case !attrs.Has(key):
			rebuilt = append(rebuilt, pair{key, a.Value})
		}
	}
	el.Attr = nil
	for _, p := range rebuilt {
		el.CreateAttr(p.key, p.value)
	}
	c.record(KindAttrs, el, before, el)
	return nil
}

var exprTarget = regexp.MustCompile(`^.*/(\w+)[^/]*?$`)

// targetTag guesses the tag an <attribute> override applies to, from the
// xpath expr of its parent or from the parent tag itself.
func targetTag(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	if expr := parent.SelectAttrValue("expr", ""); expr != "" {
		if m := exprTarget.FindStringSubmatch(expr); m != nil {
			return m[1]
		}
		return ""
	}
	return parent.Tag
}

func (c *converter) convertAttrsOverride(el *etree.Element) error {
	if el.Parent() == nil {
		return nil
	}
	before := snippet(el)
	attrs, err := transpile.GetNewAttrs(el.Text())
	if err != nil {
		return fmt.Errorf("%s override in %s: %w", KindAttrs, describe(el.Parent()), err)
	}
	tag := targetTag(el)
	indent := indentOf(el)
	hasStates := siblingAttribute(el, "states") != nil

	var inserted []etree.Token
	var merged []*etree.Element
	for _, na := range attrs {
		value := na.Expr
		if sib := siblingAttribute(el, na.Name); sib != nil {
			merged = append(merged, sib)
			value = mergeWithExisting(sib.Text(), value)
		}
		if na.Name == domain.AttrInvisible && !hasStates {
			inserted = append(inserted, statesReminder(tag, indent))
		}
		inserted = append(inserted, newAttributeElement(na.Name, value))
	}

	candidates := []string{domain.AttrInvisible}
	if tag == "field" {
		candidates = domain.AttributeNames
	}
	var missing []string
	for _, name := range candidates {
		if !attrs.Has(name) && siblingAttribute(el, name) == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 && tag == "field" {
		inserted = append(inserted, todo(indent,
			"Check if any of the attributes below were set on the original field",
			"and remove the override for those that were not."))
	}
	for _, name := range missing {
		if name == domain.AttrInvisible && !hasStates {
			inserted = append(inserted, statesReminder(tag, indent))
		}
		inserted = append(inserted, newAttributeElement(name, ""))
	}

	replaceWith(el, indent, inserted...)
	for _, sib := range merged {
		remove(sib)
	}
	c.record(KindAttrsOverride, el, before, inserted...)
	return nil
}

func statesReminder(tag, indent string) *etree.Comment {
	if tag == "" {
		tag = "element"
	}
	return todo(indent,
		fmt.Sprintf("If the inherited %s had a states attribute, fold it into this invisible", tag),
		"condition, since the invisible override replaces it.")
}

func (c *converter) convertStates(el *etree.Element) {
	before := snippet(el)
	states := el.SelectAttrValue("states", "")
	invisible := el.SelectAttrValue("invisible", "")
	indent := indentOf(el)

	var note *etree.Comment
	if invisible != "" {
		note = todo(indent,
			fmt.Sprintf("Result from merging \"states='%s'\" into the existing invisible attribute.", states),
			"Fold the states condition into invisible overrides of inheriting views as well.")
	} else {
		note = todo(indent,
			fmt.Sprintf("Result from converting \"states='%s'\" into an invisible attribute.", states),
			"Fold the states condition into invisible overrides of inheriting views as well.")
	}
	insertBefore(el, indent, note)

	combined := transpile.CombineInvisible(invisible, states)
	type pair struct{ key, value string }
	var rebuilt []pair
	for _, a := range el.Attr {
		key := a.FullKey()
		switch {
		case key == domain.AttrInvisible || (key == "states" && invisible == ""):
			if combined != "" {
				rebuilt = append(rebuilt, pair{domain.AttrInvisible, combined})
			}
		case key != "states":
			rebuilt = append(rebuilt, pair{key, a.Value})
		}
	}
	el.Attr = nil
	for _, p := range rebuilt {
		el.CreateAttr(p.key, p.value)
	}
	c.record(KindStates, el, before, note, el)
}

func (c *converter) convertStatesOverride(el *etree.Element) {
	if el.Parent() == nil {
		return
	}
	before := snippet(el)
	states := el.Text()
	indent := indentOf(el)

	var after []etree.Token
	invisible := siblingAttribute(el, domain.AttrInvisible)
	if invisible != nil {
		remove(el)
	} else {
		invisible = newAttributeElement(domain.AttrInvisible, "")
		note := todo(indent,
			fmt.Sprintf("Result from converting \"states='%s'\" into an invisible override.", strings.TrimSpace(states)),
			"Fold the invisible condition of the inherited element into this one.")
		replaceWith(el, indent, note, invisible)
		after = append(after, note)
	}
	if combined := transpile.CombineInvisible(invisible.Text(), states); combined != "" {
		invisible.SetText(combined)
	}
	c.record(KindStatesOverride, el, before, append(after, invisible)...)
}

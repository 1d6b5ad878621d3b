package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Parse reads an XML view. The content is expected to be decoded already;
// the declared encoding is ignored.
func Parse(content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("failed to parse view: %w", err)
	}
	return doc, nil
}

// Serialize writes doc back to text. Quotes are left unescaped in text and
// attribute values.
func Serialize(doc *etree.Document) (string, error) {
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	return doc.WriteToString()
}

// snippet renders tokens as they would appear in the document, separated
// by newlines.
func snippet(tokens ...etree.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		doc := etree.NewDocument()
		switch t := tok.(type) {
		case *etree.Element:
			doc.SetRoot(t.Copy())
		case *etree.Comment:
			doc.AddChild(etree.NewComment(t.Data))
		default:
			continue
		}
		s, err := Serialize(doc)
		if err != nil {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// indentOf returns the whitespace preceding el in its parent, or "".
func indentOf(el *etree.Element) string {
	parent := el.Parent()
	idx := el.Index()
	if parent == nil || idx <= 0 {
		return ""
	}
	if cd, ok := parent.Child[idx-1].(*etree.CharData); ok && cd.IsWhitespace() {
		return cd.Data
	}
	return ""
}

// replaceWith puts tokens in place of el, separated by indent.
func replaceWith(el *etree.Element, indent string, tokens ...etree.Token) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	if len(tokens) == 0 {
		remove(el)
		return
	}
	idx := el.Index()
	parent.RemoveChildAt(idx)
	for i, tok := range tokens {
		if i > 0 {
			parent.InsertChildAt(idx, etree.NewText(indent))
			idx++
		}
		parent.InsertChildAt(idx, tok)
		idx++
	}
}

// insertBefore puts tok in front of el, followed by indent.
func insertBefore(el *etree.Element, indent string, tok etree.Token) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	idx := el.Index()
	parent.InsertChildAt(idx, tok)
	parent.InsertChildAt(idx+1, etree.NewText(indent))
}

// remove detaches el together with the whitespace that precedes it.
func remove(el *etree.Element) {
	parent := el.Parent()
	if parent == nil {
		return
	}
	idx := el.Index()
	parent.RemoveChildAt(idx)
	if idx > 0 {
		if cd, ok := parent.Child[idx-1].(*etree.CharData); ok && cd.IsWhitespace() {
			parent.RemoveChildAt(idx - 1)
		}
	}
}

// siblingAttribute returns the <attribute name="..."> element next to el.
func siblingAttribute(el *etree.Element, name string) *etree.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	for _, child := range parent.ChildElements() {
		if child != el && child.Tag == "attribute" && child.SelectAttrValue("name", "") == name {
			return child
		}
	}
	return nil
}

func newAttributeElement(name, text string) *etree.Element {
	el := etree.NewElement("attribute")
	el.CreateAttr("name", name)
	if text != "" {
		el.SetText(text)
	}
	return el
}

// todo builds a multi-line TODO comment aligned under its first line.
func todo(indent string, lines ...string) *etree.Comment {
	return etree.NewComment(" TODO: " + strings.Join(lines, indent+"     ") + " ")
}

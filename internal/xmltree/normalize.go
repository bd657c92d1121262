// Package xmltree converts parsed XML documents into a schema-less tree
// of ordered objects, lists and scalars.
//
// Children of an element are collected into an *Object keyed by tag name.
// The first time a tag name repeats under the same parent, the parent
// switches to list mode: the earlier entry is hoisted into a List and
// every following child, whatever its name, is appended to that List.
// Elements below the document root that carry attributes become
// Attributed values and are not descended into. Comments and
// whitespace-only text never contribute.
package xmltree

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Parse reads a whole XML document and normalizes it.
func Parse(r io.Reader) (Value, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("xmltree: parse failed: %w", err)
	}
	return NormalizeDocument(doc), nil
}

func ParseString(s string) (Value, error) {
	return Parse(strings.NewReader(s))
}

// NormalizeDocument normalizes the top-level nodes of a parsed document.
// The result is keyed by the top-level element names and is never the
// empty Scalar. A non-document node is treated as the only top-level node.
// Top-level elements are always descended into; their attributes, such as
// xmlns declarations, are dropped.
func NormalizeDocument(doc *xmlquery.Node) Value {
	var acc accumulator
	if doc == nil {
		return acc.object()
	}
	if doc.Type != xmlquery.DocumentNode {
		if !skip(doc) {
			acc.place(tagName(doc), rootValue(doc))
		}
		return acc.result(acc.object())
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if skip(c) {
			continue
		}
		acc.place(tagName(c), rootValue(c))
	}
	return acc.result(acc.object())
}

// Normalize converts the children of n into a Value. A node with no
// contributing children yields Scalar("").
func Normalize(n *xmlquery.Node) Value {
	var acc accumulator
	if n == nil {
		return Scalar("")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if skip(c) {
			continue
		}
		acc.place(tagName(c), contribution(c))
	}
	return acc.result(Scalar(""))
}

// accumulator holds one parent's children: plain object mode until a tag
// name repeats, list mode from then on.
type accumulator struct {
	fields  *Object
	grouped List
}

func (a *accumulator) place(name string, v Value) {
	switch {
	case len(a.grouped) > 0:
		a.grouped = append(a.grouped, Entry{Name: name, Value: v})
	case a.fields.Has(name):
		prev := a.fields.remove(name)
		a.grouped = append(a.grouped,
			Entry{Name: name, Value: prev},
			Entry{Name: name, Value: v},
		)
	default:
		a.object().set(name, v)
	}
}

func (a *accumulator) object() *Object {
	if a.fields == nil {
		a.fields = &Object{}
	}
	return a.fields
}

// result returns the list when one was started, otherwise the fields, and
// empty when neither holds anything.
func (a *accumulator) result(empty Value) Value {
	if len(a.grouped) > 0 {
		return a.grouped
	}
	if a.fields.Len() > 0 {
		return a.fields
	}
	return empty
}

func rootValue(n *xmlquery.Node) Value {
	if text, ok := directText(n); ok {
		return Scalar(text)
	}
	return Normalize(n)
}

func contribution(n *xmlquery.Node) Value {
	if len(n.Attr) > 0 {
		return attributed(n)
	}
	if text, ok := directText(n); ok {
		return Scalar(text)
	}
	return Normalize(n)
}

func attributed(n *xmlquery.Node) Attributed {
	attrs := make([]Attr, 0, len(n.Attr))
	for _, at := range n.Attr {
		name := at.Name.Local
		if at.Name.Space != "" {
			name = at.Name.Space + ":" + name
		}
		attrs = append(attrs, Attr{Name: name, Value: at.Value})
	}
	out := Attributed{Attributes: attrs}
	if text, ok := directText(n); ok {
		out.Text = &text
	}
	return out
}

// directText returns the text of n when n has no element children and
// the text is not blank.
func directText(n *xmlquery.Node) (string, bool) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			return "", false
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(c.Data)
		}
	}
	text := sb.String()
	if isBlank(text) {
		return "", false
	}
	return text, true
}

// skip reports whether n never contributes to its parent: comments,
// declarations, and text runs, which have no tag name to be keyed by.
func skip(n *xmlquery.Node) bool {
	return n.Type != xmlquery.ElementNode || n.Data == ""
}

func tagName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

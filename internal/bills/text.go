package bills

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textOf returns the visible text of a selection with whitespace
// collapsed. Unlike Selection.Text, adjacent elements stay separated.
func textOf(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		extractText(&sb, n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func extractText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br:
			sb.WriteByte(' ')
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(sb, c)
	}
	if block {
		sb.WriteByte(' ')
	}
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Table: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.Section: true,
}

// preText keeps the line structure of preformatted text.
func preText(s *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rawText(&sb, c)
		}
	}
	return strings.TrimSpace(sb.String())
}

func rawText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rawText(sb, c)
	}
}

// Package document exposes a rendered HTML page as a small read-only view:
// text lookups, sibling and parent navigation, and text content.
package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is an immutable parsed page.
type Document struct {
	root *goquery.Document
}

// Node is one element of a Document. The zero Node is "absent": every
// navigation from it returns another absent Node and its text is empty.
type Node struct {
	sel *goquery.Selection
}

// Parse builds a Document from rendered HTML.
func Parse(html string) (*Document, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// Find returns every element matching a CSS selector, in document order.
func (d *Document) Find(selector string) []Node {
	return nodes(d.root.Find(selector))
}

// First returns the first element matching selector, or an absent Node.
func (d *Document) First(selector string) Node {
	return wrap(d.root.Find(selector).First())
}

// FindByText returns the first element matching selector whose trimmed text
// equals text exactly.
func (d *Document) FindByText(selector, text string) Node {
	return wrap(d.root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return normalize(s.Text()) == text
	}).First())
}

// FindContaining returns every element matching selector whose text contains keyword.
func (d *Document) FindContaining(selector, keyword string) []Node {
	return nodes(d.root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), keyword)
	}))
}

// Exists reports whether the node refers to an element.
func (n Node) Exists() bool {
	return n.sel != nil && n.sel.Length() > 0
}

// SiblingAfter returns the first following sibling matching selector.
func (n Node) SiblingAfter(selector string) Node {
	if !n.Exists() {
		return Node{}
	}
	return wrap(n.sel.NextAllFiltered(selector).First())
}

// Parent returns the closest ancestor matching selector.
func (n Node) Parent(selector string) Node {
	if !n.Exists() {
		return Node{}
	}
	return wrap(n.sel.ParentsFiltered(selector).First())
}

// Children returns the descendants matching selector, in document order.
func (n Node) Children(selector string) []Node {
	if !n.Exists() {
		return nil
	}
	return nodes(n.sel.Find(selector))
}

// Child returns the first descendant matching selector.
func (n Node) Child(selector string) Node {
	if !n.Exists() {
		return Node{}
	}
	return wrap(n.sel.Find(selector).First())
}

// TextContent returns the node's text with whitespace runs collapsed and trimmed.
func (n Node) TextContent() string {
	if !n.Exists() {
		return ""
	}
	return normalize(n.sel.Text())
}

// Attr returns an attribute value of the node.
func (n Node) Attr(name string) (string, bool) {
	if !n.Exists() {
		return "", false
	}
	return n.sel.Attr(name)
}

func wrap(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return Node{}
	}
	return Node{sel: sel}
}

func nodes(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Node{sel: s})
	})
	return out
}

// normalize collapses whitespace runs to single spaces and trims the result.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

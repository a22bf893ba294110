package crawling

import (
	"strings"
	"unicode"

	"github.com/jonathan/disease-harvester/internal/document"
)

// Locator finds the candidate containers for a field's value, in document
// order. It returns nil when the page has none.
type Locator func(doc *document.Document) []document.Node

// Reader pulls the values out of a located container.
type Reader func(n document.Node) []string

// Strategy is one tier of a field's fallback chain.
type Strategy struct {
	Locate Locator
	Read   Reader
	// Sep joins the values read. Defaults to ", ".
	Sep string
}

// DefaultSeparator joins multi-valued fields.
const DefaultSeparator = ", "

// Apply reads each located container in turn and returns the first non-empty
// value. A container that yields nothing does not end the tier.
func (s Strategy) Apply(doc *document.Document) (string, bool) {
	sep := s.Sep
	if sep == "" {
		sep = DefaultSeparator
	}
	for _, container := range s.Locate(doc) {
		if !container.Exists() {
			continue
		}
		values := s.Read(container)
		if len(values) == 0 {
			continue
		}
		if joined := strings.TrimSpace(strings.Join(values, sep)); joined != "" {
			return joined, true
		}
	}
	return "", false
}

func single(n document.Node) []document.Node {
	if !n.Exists() {
		return nil
	}
	return []document.Node{n}
}

// --- locators ---

// ByLabel finds the label element whose text equals label and returns the
// first following sibling matching valueSel (a dt/dd pair, for example).
func ByLabel(labelSel, label, valueSel string) Locator {
	return func(doc *document.Document) []document.Node {
		return single(doc.FindByText(labelSel, label).SiblingAfter(valueSel))
	}
}

// BySelector returns the first element matching selector, e.g. "#section-증상".
func BySelector(selector string) Locator {
	return func(doc *document.Document) []document.Node {
		return single(doc.First(selector))
	}
}

// ByRowHeading returns the value element of every row matching rowSel whose
// heading element contains keyword. Rows without a value element are skipped.
func ByRowHeading(rowSel, headingSel, keyword, valueSel string) Locator {
	return func(doc *document.Document) []document.Node {
		var out []document.Node
		for _, row := range doc.Find(rowSel) {
			if !strings.Contains(row.Child(headingSel).TextContent(), keyword) {
				continue
			}
			if v := row.Child(valueSel); v.Exists() {
				out = append(out, v)
			}
		}
		return out
	}
}

// ByHeadingParent returns, for every heading containing keyword, its closest
// ancestor matching parentSel.
func ByHeadingParent(headingSel, keyword, parentSel string) Locator {
	return func(doc *document.Document) []document.Node {
		var out []document.Node
		for _, h := range doc.FindContaining(headingSel, keyword) {
			if parent := h.Parent(parentSel); parent.Exists() {
				out = append(out, parent)
			}
		}
		return out
	}
}

// --- readers ---

// FirstOf returns the result of the first reader that yields any values.
func FirstOf(readers ...Reader) Reader {
	return func(n document.Node) []string {
		for _, r := range readers {
			if values := r(n); len(values) > 0 {
				return values
			}
		}
		return nil
	}
}

// Items reads the trimmed, non-empty text of each descendant matching selector.
func Items(selector string) Reader {
	return func(n document.Node) []string {
		return texts(n.Children(selector))
	}
}

// Links reads anchor text, which is cleaner than surrounding prose for
// categorical fields.
func Links() Reader {
	return Items("a")
}

// Paragraphs reads up to limit non-empty paragraphs; limit <= 0 reads all.
func Paragraphs(limit int) Reader {
	return func(n document.Node) []string {
		ps := n.Children("p")
		if limit > 0 && len(ps) > limit {
			ps = ps[:limit]
		}
		return texts(ps)
	}
}

// Text reads the container's full trimmed text as a single value.
func Text() Reader {
	return func(n document.Node) []string {
		if t := n.TextContent(); t != "" {
			return []string{t}
		}
		return nil
	}
}

// Tokens splits the container's text on commas and whitespace, dropping empty tokens.
func Tokens() Reader {
	return func(n document.Node) []string {
		return Tokenize(n.TextContent())
	}
}

// Tokenize splits free text on commas and whitespace.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func texts(ns []document.Node) []string {
	var out []string
	for _, n := range ns {
		if t := n.TextContent(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

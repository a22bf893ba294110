package crawling

import (
	"fmt"

	"github.com/jonathan/disease-harvester/internal/document"
	"github.com/jonathan/disease-harvester/internal/types"
)

// FieldRule is the ordered fallback chain for one field. The first strategy
// that yields a non-empty value wins; otherwise the field is NoData.
type FieldRule struct {
	Name       types.FieldName
	Strategies []Strategy
}

// Resolve applies the chain to doc.
func (r FieldRule) Resolve(doc *document.Document) types.FieldValue {
	for _, s := range r.Strategies {
		if v, ok := s.Apply(doc); ok {
			return types.Value(v)
		}
	}
	return types.NoData
}

// DetailExtractor turns one rendered detail page into a DetailRecord.
type DetailExtractor struct {
	// TitleSelector locates the page's own display name. When empty or absent
	// the candidate's listing name is used.
	TitleSelector string
	Fields        []FieldRule
}

// FieldNames lists the declared fields in output order.
func (e *DetailExtractor) FieldNames() []types.FieldName {
	names := make([]types.FieldName, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Name
	}
	return names
}

// Extract parses html and resolves every declared field. Failures are
// reported as *ExtractionError and concern this record only.
func (e *DetailExtractor) Extract(html, url, displayName string) (rec *types.DetailRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &ExtractionError{URL: url, Message: "unexpected page structure", Cause: fmt.Errorf("%v", r)}
		}
	}()

	doc, err := document.Parse(html)
	if err != nil {
		return nil, &ExtractionError{URL: url, Message: "unreadable document", Cause: err}
	}

	name := displayName
	if e.TitleSelector != "" {
		if title := doc.First(e.TitleSelector).TextContent(); title != "" {
			name = title
		}
	}
	primary, alt := types.SplitName(name)
	if primary == "" {
		return nil, &ExtractionError{URL: url, Message: "page has no disease name"}
	}

	fields := make(map[types.FieldName]types.FieldValue, len(e.Fields))
	for _, rule := range e.Fields {
		fields[rule.Name] = rule.Resolve(doc)
	}

	return &types.DetailRecord{
		PrimaryName: primary,
		AltName:     alt,
		URL:         url,
		Fields:      fields,
	}, nil
}

package types

import "strings"

// FieldName identifies one extracted attribute of a disease detail page.
type FieldName string

// Field names shared by the registered sources. Each source declares the subset
// (and the order) it extracts.
const (
	FieldSymptoms        FieldName = "symptoms"
	FieldDepartment      FieldName = "department"
	FieldSynonyms        FieldName = "synonyms"
	FieldRelatedDiseases FieldName = "related_diseases"
)

// FieldValue is an extracted value that can also be "no data".
//
// The zero value is NoData. A value built from a string that is empty after
// trimming is NoData as well, so callers compare against NoData and never
// against "".
type FieldValue struct {
	text    string
	present bool
}

// NoData marks a field that was absent from the page or yielded nothing.
var NoData = FieldValue{}

// Value returns a present FieldValue, or NoData when s is blank.
func Value(s string) FieldValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoData
	}
	return FieldValue{text: s, present: true}
}

// Present reports whether the field carries data.
func (v FieldValue) Present() bool {
	return v.present
}

// String returns the extracted text, or "" for NoData.
func (v FieldValue) String() string {
	return v.text
}

// Or returns the text, or placeholder when the value is NoData.
func (v FieldValue) Or(placeholder string) string {
	if !v.present {
		return placeholder
	}
	return v.text
}

// Ptr returns nil for NoData so that database writers store NULL.
func (v FieldValue) Ptr() *string {
	if !v.present {
		return nil
	}
	s := v.text
	return &s
}

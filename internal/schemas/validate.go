// Package schemas provides JSON Schema validation for configuration documents.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation found in one document.
type ValidationError struct {
	// Document names the validated document, usually its file path. Empty
	// for inline content.
	Document string
	// Schema names the schema the document was checked against.
	Schema string
	Errors []FieldError
}

// FieldError is a single violation at a dotted field path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError reports that the schema or the document could not be
// loaded at all, so no field-level result exists.
type SchemaLoadError struct {
	Document string
	Schema   string
	Cause    error
}

func (e *SchemaLoadError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s: cannot check against %s: %v", e.Document, e.Schema, e.Cause)
	}
	return fmt.Sprintf("cannot check against %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Document != "" {
		sb.WriteString(ve.Document)
		sb.WriteString(": ")
	}
	sb.WriteString("validation failed")
	if ve.Schema != "" {
		sb.WriteString(" against ")
		sb.WriteString(ve.Schema)
	}
	sb.WriteString(":\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the violated field paths in report order.
func (ve *ValidationError) Fields() []string {
	out := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		out[i] = e.Field
	}
	return out
}

// ValidateDocument checks raw JSON bytes read from document against the named
// schema. Errors carry both names so callers can return them unwrapped.
func ValidateDocument(document, schemaName, schemaContent string, data []byte) error {
	return validate(document, schemaName,
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewBytesLoader(data))
}

// ValidateJSONString validates inline JSON content against schema content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("", "(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

func validate(document, schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Document: document, Schema: schemaName, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{
		Document: document,
		Schema:   schemaName,
		Errors:   make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

package types

// DetailRecord is the structured content of one disease detail page.
type DetailRecord struct {
	PrimaryName string
	AltName     string
	URL         string
	Fields      map[FieldName]FieldValue
}

// Field returns the value recorded for name, or NoData if none was recorded.
func (r *DetailRecord) Field(name FieldName) FieldValue {
	if r == nil || r.Fields == nil {
		return NoData
	}
	return r.Fields[name]
}

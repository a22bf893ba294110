// Package sink persists harvested records: flat CSV files for one-shot exports
// and relational tables for incremental upserts.
package sink

import "fmt"

// SinkError reports a failed write of Records records.
type SinkError struct {
	Sink    string
	Op      string
	Records int
	Cause   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %s (%d records): %v", e.Sink, e.Op, e.Records, e.Cause)
}

func (e *SinkError) Unwrap() error {
	return e.Cause
}

package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonathan/disease-harvester/internal/types"
)

// FileSink writes the whole harvest once, at the end of the run, to a
// timestamped CSV file.
type FileSink struct {
	Dir    string
	Prefix string
	Layout Layout
	// Now is the clock used for file names.
	Now func() time.Time

	lastPath string
}

// NewFileSink creates a flat-file sink writing <dir>/<prefix>_diseases_<ts>.csv.
func NewFileSink(dir, prefix string, layout Layout) *FileSink {
	return &FileSink{Dir: dir, Prefix: prefix, Layout: layout, Now: time.Now}
}

// Name identifies the sink in logs.
func (s *FileSink) Name() string { return "csv" }

// BatchSize is zero: the file is written once with every record.
func (s *FileSink) BatchSize() int { return 0 }

// Persist writes records to a new timestamped file.
func (s *FileSink) Persist(_ context.Context, records []types.DetailRecord) error {
	path := filepath.Join(s.Dir, fmt.Sprintf("%s_diseases_%s.csv", s.Prefix, s.Now().Format("20060102_150405")))
	if err := WriteCSV(path, s.Layout, records); err != nil {
		return &SinkError{Sink: s.Name(), Op: "write " + path, Records: len(records), Cause: err}
	}
	s.lastPath = path
	return nil
}

// Path returns the file written by the last successful Persist.
func (s *FileSink) Path() string { return s.lastPath }

// Close is a no-op; files are closed as they are written.
func (s *FileSink) Close() error { return nil }

// ProgressFile is the non-authoritative recovery snapshot, overwritten at every
// checkpoint with everything harvested so far.
type ProgressFile struct {
	Path   string
	Layout Layout
}

// Checkpoint replaces the progress file with records.
func (p *ProgressFile) Checkpoint(records []types.DetailRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := WriteCSV(p.Path, p.Layout, records); err != nil {
		return &SinkError{Sink: "progress", Op: "checkpoint " + p.Path, Records: len(records), Cause: err}
	}
	return nil
}

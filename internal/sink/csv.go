package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/disease-harvester/internal/db"
	"github.com/jonathan/disease-harvester/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Layout fixes the CSV column order and the text used for fields without data.
type Layout struct {
	Fields     []types.FieldName
	NoDataText string
}

// Header returns the column names: primary name, alternate name, each field, url.
func (l Layout) Header() []string {
	header := []string{db.ColumnPrimaryName, db.ColumnAltName}
	for _, f := range l.Fields {
		header = append(header, string(f))
	}
	return append(header, db.ColumnURL)
}

// Row renders one record in Header order.
func (l Layout) Row(rec types.DetailRecord) []string {
	row := []string{rec.PrimaryName, rec.AltName}
	for _, f := range l.Fields {
		row = append(row, rec.Field(f).Or(l.NoDataText))
	}
	return append(row, rec.URL)
}

// WriteCSV replaces path with a UTF-8 (BOM) CSV of records. The file is written
// to a temporary sibling and renamed, so readers never observe a partial file.
func WriteCSV(path string, layout Layout, records []types.DetailRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := writeRows(tmp, layout, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move CSV into place at %s: %w", path, err)
	}
	return nil
}

func writeRows(f *os.File, layout Layout, records []types.DetailRecord) error {
	// UTF-8 BOM for Excel friendliness
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(layout.Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(layout.Row(rec)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", rec.URL, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

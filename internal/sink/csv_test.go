package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/disease-harvester/internal/types"
)

var amcLayout = Layout{
	Fields:     []types.FieldName{types.FieldSymptoms, types.FieldDepartment, types.FieldSynonyms, types.FieldRelatedDiseases},
	NoDataText: "정보 없음",
}

func record(name, alt, url string, fields map[types.FieldName]types.FieldValue) types.DetailRecord {
	return types.DetailRecord{PrimaryName: name, AltName: alt, URL: url, Fields: fields}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "file should start with a UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestLayout_Header(t *testing.T) {
	assert.Equal(t,
		[]string{"disease_name_kr", "disease_name_eng", "symptoms", "department", "synonyms", "related_diseases", "url"},
		amcLayout.Header())
}

func TestWriteCSV_NoDataPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []types.DetailRecord{
		record("간염", "Hepatitis", "https://amc.test/1", map[types.FieldName]types.FieldValue{
			types.FieldSymptoms:   types.Value("황달, 피로"),
			types.FieldDepartment: types.Value("소화기내과"),
		}),
		record("감기", "", "https://amc.test/2", nil),
	}

	require.NoError(t, WriteCSV(path, amcLayout, records))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"간염", "Hepatitis", "황달, 피로", "소화기내과", "정보 없음", "정보 없음", "https://amc.test/1"}, rows[1])
	assert.Equal(t, []string{"감기", "", "정보 없음", "정보 없음", "정보 없음", "정보 없음", "https://amc.test/2"}, rows[2])
}

func TestWriteCSV_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.csv")

	first := []types.DetailRecord{record("a", "", "u1", nil), record("b", "", "u2", nil)}
	require.NoError(t, WriteCSV(path, amcLayout, first))
	require.NoError(t, WriteCSV(path, amcLayout, first[:1]))

	rows := readCSV(t, path)
	assert.Len(t, rows, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_Persist(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir, "amc", amcLayout)
	s.Now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	assert.Equal(t, 0, s.BatchSize())
	require.NoError(t, s.Persist(context.Background(), []types.DetailRecord{record("a", "", "u1", nil)}))

	want := filepath.Join(dir, "amc_diseases_20240309_140507.csv")
	assert.Equal(t, want, s.Path())
	assert.Len(t, readCSV(t, want), 2)
	assert.NoError(t, s.Close())
}

func TestFileSink_PersistFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewFileSink(filepath.Join(blocker, "out"), "amc", amcLayout)
	err := s.Persist(context.Background(), []types.DetailRecord{record("a", "", "u1", nil)})

	var sinkErr *SinkError
	require.True(t, errors.As(err, &sinkErr))
	assert.Equal(t, "csv", sinkErr.Sink)
	assert.Equal(t, 1, sinkErr.Records)
	assert.Empty(t, s.Path())
}

func TestProgressFile_Checkpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amc_progress.csv")
	p := &ProgressFile{Path: path, Layout: amcLayout}

	require.NoError(t, p.Checkpoint(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty checkpoint should not create a file")

	require.NoError(t, p.Checkpoint([]types.DetailRecord{record("a", "", "u1", nil)}))
	assert.Len(t, readCSV(t, path), 2)
}

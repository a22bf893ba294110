package sink

import (
	"context"

	"github.com/jonathan/disease-harvester/internal/db"
	"github.com/jonathan/disease-harvester/internal/types"
)

// DefaultBatchSize is the number of records upserted per transaction.
const DefaultBatchSize = 20

// TableSink upserts records into a relational table in fixed-size batches, one
// transaction per batch.
type TableSink struct {
	store     db.Store
	table     db.Table
	batchSize int
	name      string
}

// NewTableSink wraps an open store. The store is owned by the sink and closed
// by Close.
func NewTableSink(name string, store db.Store, table db.Table, batchSize int) *TableSink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &TableSink{store: store, table: table, batchSize: batchSize, name: name}
}

// Name identifies the sink in logs.
func (s *TableSink) Name() string { return s.name }

// BatchSize is the number of records per upsert transaction.
func (s *TableSink) BatchSize() int { return s.batchSize }

// Persist upserts records as one batch. A failure leaves earlier batches committed.
func (s *TableSink) Persist(ctx context.Context, records []types.DetailRecord) error {
	if err := s.store.UpsertDiseases(ctx, s.table, records); err != nil {
		return &SinkError{Sink: s.name, Op: "upsert into " + s.table.Name, Records: len(records), Cause: err}
	}
	return nil
}

// Close releases the store connection.
func (s *TableSink) Close() error {
	return s.store.Close()
}

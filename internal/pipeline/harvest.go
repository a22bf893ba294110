package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/fetch"
	"github.com/jonathan/disease-harvester/internal/types"
)

const (
	// DefaultCheckpointEvery is the number of processed candidates between checkpoints.
	DefaultCheckpointEvery = 20
	// DefaultDetailDelay is the politeness pause after each detail fetch.
	DefaultDetailDelay = 1500 * time.Millisecond
)

// Sink persists extracted records. A positive BatchSize means records are
// written incrementally in batches of that size; zero means one write at the end.
type Sink interface {
	Name() string
	BatchSize() int
	Persist(ctx context.Context, records []types.DetailRecord) error
	Close() error
}

// Checkpointer overwrites a recovery snapshot with all records so far.
type Checkpointer interface {
	Checkpoint(records []types.DetailRecord) error
}

// Harvester visits candidates one at a time and hands the records to a Sink.
type Harvester struct {
	Renderer   fetch.Renderer
	Extractor  *crawling.DetailExtractor
	Sink       Sink
	Checkpoint Checkpointer

	CheckpointEvery int
	Delay           time.Duration
	Sleep           crawling.SleepFunc
	Logger          *slog.Logger
	OnProgress      ProgressCallback
	RunID           uuid.UUID
}

func (h *Harvester) emit(event ProgressEvent) {
	if h.OnProgress == nil {
		return
	}
	event.RunID = h.RunID.String()
	h.OnProgress(event)
}

func (h *Harvester) settings() (every int, sleep crawling.SleepFunc, logger *slog.Logger) {
	every = h.CheckpointEvery
	if every <= 0 {
		every = DefaultCheckpointEvery
	}
	sleep = h.Sleep
	if sleep == nil {
		sleep = fetch.Pause
	}
	logger = h.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return every, sleep, logger
}

// Harvest processes candidates in order. Per-record fetch and extraction
// failures, checkpoint failures, and sink batch failures are counted and logged;
// the returned error is non-nil only when ctx is done, in which case nothing
// further is persisted and the last checkpoint is the recovery artifact.
func (h *Harvester) Harvest(ctx context.Context, candidates []types.CandidateRecord) (*Result, error) {
	if h.Renderer == nil || h.Extractor == nil || h.Sink == nil {
		return nil, errors.New("harvester requires a renderer, an extractor and a sink")
	}
	if h.RunID == uuid.Nil {
		h.RunID = uuid.New()
	}
	every, sleep, logger := h.settings()
	logger = logger.With("run_id", h.RunID.String(), "sink", h.Sink.Name())

	result := &Result{RunID: h.RunID, Discovered: len(candidates)}
	batchSize := h.Sink.BatchSize()
	var pending []types.DetailRecord
	total := len(candidates)

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		idx := i + 1

		rec, err := h.visit(ctx, c)
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{Candidate: c, Reason: err.Error()})
			logger.Warn(fmt.Sprintf("[%d/%d] ✗ %s", idx, total, c.Name), "url", c.URL, "error", err)
			h.emit(ProgressEvent{Step: StepDetail, Category: CategoryFailure, Message: err.Error(), Index: idx, Total: total, URL: c.URL})
		} else {
			result.Succeeded++
			result.Records = append(result.Records, *rec)
			pending = append(pending, *rec)
			logger.Info(fmt.Sprintf("[%d/%d] ✓ %s", idx, total, rec.PrimaryName), "url", c.URL)
			h.emit(ProgressEvent{Step: StepDetail, Category: CategoryOK, Message: rec.PrimaryName, Index: idx, Total: total, URL: c.URL})
		}
		result.Processed = idx

		if err := sleep(ctx, h.Delay); err != nil {
			return result, err
		}

		if h.Checkpoint != nil && idx%every == 0 {
			h.checkpoint(result, logger)
		}

		if batchSize > 0 && len(pending) >= batchSize {
			h.persist(ctx, result, pending, logger)
			pending = nil
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if batchSize > 0 {
		if len(pending) > 0 {
			h.persist(ctx, result, pending, logger)
		}
	} else if len(result.Records) > 0 {
		h.persist(ctx, result, result.Records, logger)
	}

	logger.Info("harvest finished",
		"discovered", result.Discovered,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"persisted", result.Persisted,
		"persist_failures", result.PersistFailures)
	return result, nil
}

func (h *Harvester) visit(ctx context.Context, c types.CandidateRecord) (*types.DetailRecord, error) {
	html, err := h.Renderer.Render(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return h.Extractor.Extract(html, c.URL, c.Name)
}

func (h *Harvester) checkpoint(result *Result, logger *slog.Logger) {
	snapshot := make([]types.DetailRecord, len(result.Records))
	copy(snapshot, result.Records)

	if err := h.Checkpoint.Checkpoint(snapshot); err != nil {
		logger.Warn("checkpoint failed", "processed", result.Processed, "error", err)
		h.emit(ProgressEvent{Step: StepCheckpoint, Category: CategoryFailure, Message: err.Error(), Index: result.Processed})
		return
	}
	result.Checkpoints++
	logger.Debug("checkpoint written", "processed", result.Processed, "records", len(snapshot))
	h.emit(ProgressEvent{Step: StepCheckpoint, Category: CategoryOK, Message: fmt.Sprintf("%d records", len(snapshot)), Index: result.Processed})
}

func (h *Harvester) persist(ctx context.Context, result *Result, records []types.DetailRecord, logger *slog.Logger) {
	if err := h.Sink.Persist(ctx, records); err != nil {
		result.PersistFailures += len(records)
		logger.Error("persist failed", "records", len(records), "error", err)
		h.emit(ProgressEvent{Step: StepPersist, Category: CategoryFailure, Message: err.Error()})
		return
	}
	result.Persisted += len(records)
	logger.Info("persisted batch", "records", len(records), "total_persisted", result.Persisted)
	h.emit(ProgressEvent{Step: StepPersist, Category: CategoryOK, Message: fmt.Sprintf("%d records", len(records))})
}

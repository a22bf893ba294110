package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/fetch"
	"github.com/jonathan/disease-harvester/internal/sources"
)

// previewCandidates is the number of discovered candidates logged before
// detail processing starts.
const previewCandidates = 10

// RunOptions holds configuration for running a harvest
type RunOptions struct {
	Source     *sources.Source
	Renderer   fetch.Renderer
	Sink       Sink
	Checkpoint Checkpointer

	MaxPages        int
	EmptyPageLimit  int
	CheckpointEvery int
	PageDelay       time.Duration
	DetailDelay     time.Duration

	// Sleep replaces the politeness pause; tests use it to skip waiting.
	Sleep      crawling.SleepFunc
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Run walks the source's listing, then harvests every discovered candidate.
// The caller owns the renderer and sink and closes them.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("run requires a source")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	runID := uuid.New()
	logger = logger.With("run_id", runID.String(), "source", opts.Source.Name)

	pageDelay := opts.PageDelay
	if pageDelay == 0 {
		pageDelay = crawling.DefaultPageDelay
	}

	logger.Info("collecting candidates", "listing", opts.Source.ListingURL(1))
	paginator := &crawling.Paginator{
		Renderer:       opts.Renderer,
		Extractor:      opts.Source.Listing,
		ListingURL:     opts.Source.ListingURL,
		MaxPages:       opts.MaxPages,
		EmptyPageLimit: opts.EmptyPageLimit,
		Delay:          pageDelay,
		Sleep:          opts.Sleep,
		Logger:         logger,
	}
	candidates, stats, err := paginator.Collect(ctx)
	if err != nil {
		return &Result{RunID: runID, Pagination: stats}, fmt.Errorf("pagination failed: %w", err)
	}

	for i, c := range candidates {
		if i == previewCandidates {
			break
		}
		logger.Info(fmt.Sprintf("  %d. %s", i+1, c.Name), "url", c.URL, "page", c.SourcePage)
	}
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     StepPaginate,
			Category: CategoryOK,
			Message:  fmt.Sprintf("%d candidates from %d pages", len(candidates), stats.PagesFetched),
			RunID:    runID.String(),
			Total:    len(candidates),
		})
	}

	delay := opts.DetailDelay
	if delay == 0 {
		delay = DefaultDetailDelay
	}
	harvester := &Harvester{
		Renderer:        opts.Renderer,
		Extractor:       opts.Source.Detail,
		Sink:            opts.Sink,
		Checkpoint:      opts.Checkpoint,
		CheckpointEvery: opts.CheckpointEvery,
		Delay:           delay,
		Sleep:           opts.Sleep,
		Logger:          opts.Logger,
		OnProgress:      opts.OnProgress,
		RunID:           runID,
	}
	result, err := harvester.Harvest(ctx, candidates)
	if result != nil {
		result.Pagination = stats
	}
	return result, err
}

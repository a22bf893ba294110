package crawling

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/disease-harvester/internal/document"
	"github.com/jonathan/disease-harvester/internal/fetch"
	"github.com/jonathan/disease-harvester/internal/types"
)

const (
	// DefaultMaxPages is the hard ceiling on listing page indices.
	DefaultMaxPages = 200
	// DefaultEmptyPageLimit is how many consecutive empty pages end the listing.
	// The crawl therefore always probes EmptyPageLimit-1 pages past the real end.
	DefaultEmptyPageLimit = 3
	// DefaultPageDelay is the politeness delay after every listing fetch.
	DefaultPageDelay = 1 * time.Second
)

// SleepFunc waits between requests. fetch.Pause is the production implementation.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Paginator walks listing pages 1..MaxPages through a single renderer.
type Paginator struct {
	Renderer       fetch.Renderer
	Extractor      ListingExtractor
	ListingURL     func(page int) string
	MaxPages       int
	EmptyPageLimit int
	Delay          time.Duration
	Sleep          SleepFunc
	Logger         *slog.Logger
}

// PaginationStats describes one completed listing walk.
type PaginationStats struct {
	PagesFetched  int
	EmptyPages    int
	FetchFailures int
	Discovered    int
	Unique        int
	// LastDataPage is the highest page index that produced candidates.
	LastDataPage int
}

// Collect fetches listing pages until EmptyPageLimit consecutive pages yield
// nothing or MaxPages is passed, then deduplicates the candidates by URL.
// A page that fails to render counts as empty.
func (p *Paginator) Collect(ctx context.Context) ([]types.CandidateRecord, PaginationStats, error) {
	var stats PaginationStats
	if p.Renderer == nil || p.Extractor == nil || p.ListingURL == nil {
		return nil, stats, &CrawlError{Message: "paginator requires a renderer, extractor and listing URL"}
	}

	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	emptyLimit := p.EmptyPageLimit
	if emptyLimit <= 0 {
		emptyLimit = DefaultEmptyPageLimit
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = fetch.Pause
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var all []types.CandidateRecord
	consecutiveEmpty := 0

	for page := 1; page <= maxPages; page++ {
		candidates, hadAny := p.fetchPage(ctx, page, &stats, logger)
		stats.PagesFetched++

		if hadAny {
			all = append(all, candidates...)
			consecutiveEmpty = 0
			stats.LastDataPage = page
			logger.Info("listing page collected", "page", page, "candidates", len(candidates))
		} else {
			consecutiveEmpty++
			stats.EmptyPages++
			logger.Warn("listing page empty", "page", page, "consecutive", consecutiveEmpty, "limit", emptyLimit)
		}

		if err := sleep(ctx, p.Delay); err != nil {
			return nil, stats, err
		}

		if consecutiveEmpty >= emptyLimit {
			logger.Info("listing exhausted", "last_data_page", stats.LastDataPage)
			break
		}
	}

	stats.Discovered = len(all)
	unique := DedupeByURL(all)
	stats.Unique = len(unique)
	logger.Info("candidates collected", "discovered", stats.Discovered, "unique", stats.Unique)

	return unique, stats, nil
}

func (p *Paginator) fetchPage(ctx context.Context, page int, stats *PaginationStats, logger *slog.Logger) ([]types.CandidateRecord, bool) {
	url := p.ListingURL(page)
	logger.Debug("loading listing page", "page", page, "url", url)

	html, err := p.Renderer.Render(ctx, url)
	if err != nil {
		stats.FetchFailures++
		logger.Warn("listing page fetch failed", "page", page, "error", err)
		return nil, false
	}

	doc, err := document.Parse(html)
	if err != nil {
		logger.Warn("listing page unreadable", "page", page, "error", err)
		return nil, false
	}
	return p.Extractor.ExtractListing(doc, page)
}

// Package types defines the records passed between crawl stages.
package types

// CandidateRecord is one disease entry discovered on a listing page.
// URL is the deduplication key for the whole crawl.
type CandidateRecord struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	SourcePage int    `json:"source_page"`
}

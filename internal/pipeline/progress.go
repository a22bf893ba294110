// Package pipeline orchestrates a harvest: pagination over a listing source,
// sequential detail extraction, periodic checkpoints, and sink persistence.
package pipeline

// Steps reported through ProgressEvent.
const (
	StepPaginate   = "paginate"
	StepDetail     = "detail"
	StepCheckpoint = "checkpoint"
	StepPersist    = "persist"
)

// Outcome categories reported through ProgressEvent.
const (
	CategoryOK      = "ok"
	CategoryFailure = "failure"
)

// ProgressEvent represents a progress update during a harvest
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Index    int    `json:"index,omitempty"`
	Total    int    `json:"total,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ProgressCallback is called when harvest progress occurs
type ProgressCallback func(event ProgressEvent)

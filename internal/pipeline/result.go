package pipeline

import (
	"github.com/google/uuid"

	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/types"
)

// Failure records one candidate that produced no DetailRecord.
type Failure struct {
	Candidate types.CandidateRecord
	Reason    string
}

// Result summarizes a harvest. Records holds every extracted record in
// candidate order.
type Result struct {
	RunID           uuid.UUID
	Pagination      crawling.PaginationStats
	Discovered      int
	Processed       int
	Succeeded       int
	Failed          int
	Persisted       int
	PersistFailures int
	Checkpoints     int
	Records         []types.DetailRecord
	Failures        []Failure
}

// FieldCoverage counts, per field, the records holding data for it.
func (r *Result) FieldCoverage(fields []types.FieldName) map[types.FieldName]int {
	counts := make(map[types.FieldName]int, len(fields))
	for _, f := range fields {
		counts[f] = 0
	}
	for i := range r.Records {
		for _, f := range fields {
			if r.Records[i].Field(f).Present() {
				counts[f]++
			}
		}
	}
	return counts
}

// AltNames counts records with a non-empty alternate name.
func (r *Result) AltNames() int {
	n := 0
	for _, rec := range r.Records {
		if rec.AltName != "" {
			n++
		}
	}
	return n
}

package crawling

import "github.com/jonathan/disease-harvester/internal/types"

// DedupeByURL keeps the first candidate seen for each URL and preserves the
// order of those first occurrences.
func DedupeByURL(candidates []types.CandidateRecord) []types.CandidateRecord {
	seen := make(map[string]bool, len(candidates))
	unique := make([]types.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		unique = append(unique, c)
	}
	return unique
}

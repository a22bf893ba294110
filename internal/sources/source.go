// Package sources registers the disease encyclopedias the harvester knows how
// to crawl. Each source pairs listing and detail extraction rules with its
// default persistence settings.
package sources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/types"
)

// Sink kinds a source can default to.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
)

// Source describes one encyclopedia.
type Source struct {
	Name        string
	Title       string
	Site        crawling.Site
	listingPath string
	Listing     crawling.ListingExtractor
	Detail      *crawling.DetailExtractor
	// NoDataText is written to flat files for fields without data.
	NoDataText string
	// DefaultSink is used when the run does not choose one.
	DefaultSink string
	// Table is the relational sink table.
	Table string
	// FilePrefix names the flat-file outputs: <prefix>_diseases_<ts>.csv and <prefix>_progress.csv.
	FilePrefix string
}

// ListingURL returns the listing page URL for a 1-based page index. Filter
// parameters are left empty.
func (s *Source) ListingURL(page int) string {
	return s.Site.Origin + fmt.Sprintf(s.listingPath, page)
}

// Fields returns the declared fields in output order.
func (s *Source) Fields() []types.FieldName {
	return s.Detail.FieldNames()
}

type constructor func(origin string) *Source

var registry = map[string]constructor{
	"amc":  NewAMC,
	"snuh": NewSNUH,
}

// Lookup builds the named source. A non-empty origin replaces the site's
// scheme and host.
func Lookup(name, origin string) (*Source, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(strings.TrimSuffix(origin, "/")), nil
}

// Names lists the registered sources alphabetically.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func site(origin, defaultOrigin, section string) crawling.Site {
	if origin == "" {
		origin = defaultOrigin
	}
	return crawling.Site{Origin: origin, SectionBase: origin + section}
}

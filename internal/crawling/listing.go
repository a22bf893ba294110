package crawling

import (
	"strings"

	"github.com/jonathan/disease-harvester/internal/document"
	"github.com/jonathan/disease-harvester/internal/types"
)

// ListingExtractor reads one rendered listing page. hadAnyData is true when
// at least one candidate was produced.
type ListingExtractor interface {
	ExtractListing(doc *document.Document, page int) (candidates []types.CandidateRecord, hadAnyData bool)
}

// AnchorListing matches every link whose href contains Marker; the link text
// is the display name.
type AnchorListing struct {
	Site   Site
	Marker string
}

// ExtractListing implements ListingExtractor.
func (l AnchorListing) ExtractListing(doc *document.Document, page int) ([]types.CandidateRecord, bool) {
	var out []types.CandidateRecord
	for _, a := range doc.Find("a[href]") {
		href, _ := a.Attr("href")
		if !strings.Contains(href, l.Marker) {
			continue
		}
		name := a.TextContent()
		if name == "" {
			continue
		}
		out = append(out, types.CandidateRecord{
			Name:       name,
			URL:        l.Site.NormalizeHref(href),
			SourcePage: page,
		})
	}
	return out, len(out) > 0
}

// CardListing reads a container of item cards, each holding a title element
// and a link.
type CardListing struct {
	Site      Site
	Container string
	Item      string
	Title     string
}

// ExtractListing implements ListingExtractor.
func (l CardListing) ExtractListing(doc *document.Document, page int) ([]types.CandidateRecord, bool) {
	container := doc.First(l.Container)
	if !container.Exists() {
		return nil, false
	}

	var out []types.CandidateRecord
	for _, item := range container.Children(l.Item) {
		title := item.Child(l.Title)
		if !title.Exists() {
			continue
		}
		link := item.Child("a[href]")
		if !link.Exists() {
			continue
		}
		name := title.TextContent()
		if name == "" {
			continue
		}
		href, _ := link.Attr("href")
		out = append(out, types.CandidateRecord{
			Name:       name,
			URL:        l.Site.NormalizeHref(href),
			SourcePage: page,
		})
	}
	return out, len(out) > 0
}

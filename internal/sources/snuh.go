package sources

import (
	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/types"
)

const snuhOrigin = "https://www.snuh.org"

// NewSNUH builds the Seoul National University Hospital medical information
// source. Its detail pages use titled content sections rather than label lists.
func NewSNUH(origin string) *Source {
	s := site(origin, snuhOrigin, "/health/nMedInfo/")

	departmentIn := func(rowSel string) crawling.Strategy {
		return crawling.Strategy{
			Locate: crawling.ByRowHeading(rowSel, "em", "진료과", "p"),
			Read:   crawling.Links(),
		}
	}

	return &Source{
		Name:        "snuh",
		Title:       "Seoul National University Hospital medical information",
		Site:        s,
		listingPath: "/health/nMedInfo/nList.do?pageIndex=%d&sortType=&searchNWord=&searchKey=",
		Listing: crawling.CardListing{
			Site:      s,
			Container: "div.thumbType04",
			Item:      "div.item",
			Title:     "strong",
		},
		Detail: &crawling.DetailExtractor{
			TitleSelector: "h3",
			Fields: []crawling.FieldRule{
				{Name: types.FieldDepartment, Strategies: []crawling.Strategy{
					departmentIn("div.viewRow.tooltipRow"),
					departmentIn("div.viewRow"),
				}},
				{Name: types.FieldSymptoms, Strategies: []crawling.Strategy{
					{Locate: crawling.BySelector("div#section-증상"), Read: crawling.Paragraphs(0), Sep: " "},
					{Locate: crawling.ByHeadingParent("h5", "증상", "div"), Read: crawling.Paragraphs(0), Sep: " "},
					{Locate: crawling.BySelector("div#section-정의"), Read: crawling.Paragraphs(2), Sep: " "},
				}},
			},
		},
		DefaultSink: SinkPostgres,
		Table:       "snuh_diseases",
		FilePrefix:  "snuh",
	}
}

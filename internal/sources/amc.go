package sources

import (
	"github.com/jonathan/disease-harvester/internal/crawling"
	"github.com/jonathan/disease-harvester/internal/types"
)

const amcOrigin = "https://www.amc.seoul.kr"

// NewAMC builds the Asan Medical Center disease encyclopedia source. Detail
// pages list their attributes as dt/dd pairs.
func NewAMC(origin string) *Source {
	s := site(origin, amcOrigin, "/asan/healthinfo/disease/")

	labeled := func(name types.FieldName, label string, read crawling.Reader) crawling.FieldRule {
		return crawling.FieldRule{Name: name, Strategies: []crawling.Strategy{
			{Locate: crawling.ByLabel("dt", label, "dd"), Read: read},
		}}
	}

	return &Source{
		Name:        "amc",
		Title:       "Asan Medical Center disease encyclopedia",
		Site:        s,
		listingPath: "/asan/healthinfo/disease/diseaseList.do?pageIndex=%d&partId=&diseaseKindId=&searchKeyword=",
		Listing:     crawling.AnchorListing{Site: s, Marker: "diseaseDetail.do"},
		Detail: &crawling.DetailExtractor{
			Fields: []crawling.FieldRule{
				labeled(types.FieldSymptoms, "증상", crawling.FirstOf(crawling.Items("li"), crawling.Text())),
				labeled(types.FieldDepartment, "진료과", crawling.FirstOf(crawling.Links(), crawling.Text())),
				labeled(types.FieldSynonyms, "동의어", crawling.Tokens()),
				labeled(types.FieldRelatedDiseases, "관련질환", crawling.FirstOf(crawling.Links(), crawling.Text())),
			},
		},
		NoDataText:  "정보 없음",
		DefaultSink: SinkCSV,
		Table:       "amc_diseases",
		FilePrefix:  "amc",
	}
}

package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/disease-harvester/internal/document"
	"github.com/jonathan/disease-harvester/internal/types"
)

func TestLookup(t *testing.T) {
	src, err := Lookup("SNUH", "")
	require.NoError(t, err)
	assert.Equal(t, "snuh", src.Name)

	_, err = Lookup("nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amc, snuh")
}

func TestLookup_OriginOverride(t *testing.T) {
	src, err := Lookup("amc", "http://127.0.0.1:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", src.Site.Origin)
	assert.Equal(t, "http://127.0.0.1:8080/asan/healthinfo/disease/", src.Site.SectionBase)
}

func TestListingURL(t *testing.T) {
	amc := NewAMC("")
	assert.Equal(t,
		"https://www.amc.seoul.kr/asan/healthinfo/disease/diseaseList.do?pageIndex=3&partId=&diseaseKindId=&searchKeyword=",
		amc.ListingURL(3))

	snuh := NewSNUH("")
	assert.Equal(t,
		"https://www.snuh.org/health/nMedInfo/nList.do?pageIndex=12&sortType=&searchNWord=&searchKey=",
		snuh.ListingURL(12))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []types.FieldName{
		types.FieldSymptoms, types.FieldDepartment, types.FieldSynonyms, types.FieldRelatedDiseases,
	}, NewAMC("").Fields())
	assert.Equal(t, []types.FieldName{types.FieldDepartment, types.FieldSymptoms}, NewSNUH("").Fields())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"amc", "snuh"}, Names())
}

func TestAMC_ListingPage(t *testing.T) {
	doc, err := document.Parse(`
		<div class="listCont">
			<a href="diseaseDetail.do?contentId=31601">편두통(Migraine)</a>
			<a href="/asan/healthinfo/disease/diseaseDetail.do?contentId=32103">통풍(Gout)</a>
			<a href="/asan/healthinfo/disease/diseaseList.do?pageIndex=2">2</a>
		</div>`)
	require.NoError(t, err)

	got, hadAny := NewAMC("").Listing.ExtractListing(doc, 1)
	require.True(t, hadAny)
	require.Len(t, got, 2)
	assert.Equal(t, "https://www.amc.seoul.kr/asan/healthinfo/disease/diseaseDetail.do?contentId=31601", got[0].URL)
	assert.Equal(t, "https://www.amc.seoul.kr/asan/healthinfo/disease/diseaseDetail.do?contentId=32103", got[1].URL)
}

func TestAMC_DetailPage(t *testing.T) {
	html := `
		<div class="contBox">
			<dl class="descDl">
				<dt>증상</dt>
				<dd><ul><li>박동성 두통</li><li>구역</li><li>빛 공포증</li></ul></dd>
				<dt>관련질환</dt>
				<dd><a href="./diseaseDetail.do?contentId=1">긴장성 두통</a><a href="./diseaseDetail.do?contentId=2">군발 두통</a></dd>
				<dt>진료과</dt>
				<dd><a href="/dept/neuro">신경과</a></dd>
				<dt>동의어</dt>
				<dd>Migraine, 편두통성 두통</dd>
			</dl>
		</div>`

	rec, err := NewAMC("").Detail.Extract(html, "https://www.amc.seoul.kr/x", "편두통(Migraine)")
	require.NoError(t, err)

	assert.Equal(t, "편두통", rec.PrimaryName)
	assert.Equal(t, "Migraine", rec.AltName)
	assert.Equal(t, "박동성 두통, 구역, 빛 공포증", rec.Field(types.FieldSymptoms).String())
	assert.Equal(t, "신경과", rec.Field(types.FieldDepartment).String())
	assert.Equal(t, "Migraine, 편두통성, 두통", rec.Field(types.FieldSynonyms).String())
	assert.Equal(t, "긴장성 두통, 군발 두통", rec.Field(types.FieldRelatedDiseases).String())
}

func TestSNUH_ListingPage(t *testing.T) {
	doc, err := document.Parse(`
		<div class="thumbType04">
			<div class="item"><a href="./nView.do?category=DIS&medid=AA000303"><strong>편두통 [Migraine]</strong></a></div>
			<div class="item"><a href="./nView.do?category=DIS&medid=AA000304"><strong>통풍 [Gout]</strong></a></div>
		</div>`)
	require.NoError(t, err)

	got, hadAny := NewSNUH("").Listing.ExtractListing(doc, 5)
	require.True(t, hadAny)
	require.Len(t, got, 2)
	assert.Equal(t, "https://www.snuh.org/health/nMedInfo/nView.do?category=DIS&medid=AA000303", got[0].URL)
	assert.Equal(t, 5, got[0].SourcePage)
}

func TestSNUH_DetailPage_PrimarySections(t *testing.T) {
	html := `
		<h3>편두통 [Migraine]</h3>
		<div class="viewRow tooltipRow"><em>진료과</em><p><a>신경과</a><a>소아청소년과</a></p></div>
		<div id="section-증상"><p>머리 한쪽이 욱신거립니다.</p><p></p><p>구역이 동반됩니다.</p></div>`

	rec, err := NewSNUH("").Detail.Extract(html, "u", "listing name")
	require.NoError(t, err)
	assert.Equal(t, "편두통", rec.PrimaryName)
	assert.Equal(t, "Migraine", rec.AltName)
	assert.Equal(t, "신경과, 소아청소년과", rec.Field(types.FieldDepartment).String())
	assert.Equal(t, "머리 한쪽이 욱신거립니다. 구역이 동반됩니다.", rec.Field(types.FieldSymptoms).String())
}

func TestSNUH_DetailPage_FallbackTiers(t *testing.T) {
	html := `
		<h3>통풍</h3>
		<div class="viewRow"><em>분류</em><p><a>대사질환</a></p></div>
		<div class="viewRow"><em>진료과</em><p><a>류마티스내과</a></p></div>
		<div class="section"><h5>주요 증상</h5><p>엄지발가락 통증</p></div>`

	rec, err := NewSNUH("").Detail.Extract(html, "u", "통풍")
	require.NoError(t, err)
	assert.Equal(t, "류마티스내과", rec.Field(types.FieldDepartment).String())
	assert.Equal(t, "엄지발가락 통증", rec.Field(types.FieldSymptoms).String())
	assert.Equal(t, "", rec.AltName)
}

func TestSNUH_DetailPage_SymptomHeadingOutsideSection(t *testing.T) {
	html := `
		<h3>통풍</h3>
		<div class="nav"><h5>증상 바로가기</h5></div>
		<div class="section"><h5>주요 증상</h5><p>엄지발가락 통증</p></div>
		<div id="section-정의"><p>요산 결정이 쌓이는 질환.</p></div>`

	rec, err := NewSNUH("").Detail.Extract(html, "u", "통풍")
	require.NoError(t, err)
	assert.Equal(t, "엄지발가락 통증", rec.Field(types.FieldSymptoms).String())
}

func TestSNUH_DetailPage_DepartmentRowWithoutParagraph(t *testing.T) {
	html := `
		<h3>통풍</h3>
		<div class="viewRow"><em>진료과</em></div>
		<div class="viewRow"><em>진료과</em><p><a>류마티스내과</a></p></div>`

	rec, err := NewSNUH("").Detail.Extract(html, "u", "통풍")
	require.NoError(t, err)
	assert.Equal(t, "류마티스내과", rec.Field(types.FieldDepartment).String())
}

func TestSNUH_DetailPage_DefinitionLastResort(t *testing.T) {
	html := `
		<h3>희귀질환</h3>
		<div id="section-정의"><p>첫 문단.</p><p>둘째 문단.</p><p>셋째 문단.</p></div>`

	rec, err := NewSNUH("").Detail.Extract(html, "u", "희귀질환")
	require.NoError(t, err)
	assert.Equal(t, "첫 문단. 둘째 문단.", rec.Field(types.FieldSymptoms).String())
	assert.Equal(t, types.NoData, rec.Field(types.FieldDepartment))
}

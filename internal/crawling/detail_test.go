package crawling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/disease-harvester/internal/document"
	"github.com/jonathan/disease-harvester/internal/types"
)

func labeledExtractor() *DetailExtractor {
	return &DetailExtractor{
		Fields: []FieldRule{
			{Name: types.FieldSymptoms, Strategies: []Strategy{
				{Locate: ByLabel("dt", "증상", "dd"), Read: FirstOf(Items("li"), Text())},
			}},
			{Name: types.FieldDepartment, Strategies: []Strategy{
				{Locate: ByLabel("dt", "진료과", "dd"), Read: FirstOf(Links(), Text())},
			}},
			{Name: types.FieldSynonyms, Strategies: []Strategy{
				{Locate: ByLabel("dt", "동의어", "dd"), Read: Tokens()},
			}},
		},
	}
}

func TestExtract_ListBeatsPlainText(t *testing.T) {
	html := `<dl>
		<dt>증상</dt>
		<dd>다음과 같은 증상이 나타납니다.<ul><li>두통</li><li> 구역 </li></ul></dd>
	</dl>`

	rec, err := labeledExtractor().Extract(html, "https://example.test/d/1", "편두통")
	require.NoError(t, err)
	assert.Equal(t, "두통, 구역", rec.Field(types.FieldSymptoms).String())
}

func TestExtract_PlainTextWhenNoItems(t *testing.T) {
	html := `<dl><dt>증상</dt><dd>  머리가 아픕니다.  </dd></dl>`

	rec, err := labeledExtractor().Extract(html, "u", "편두통")
	require.NoError(t, err)
	assert.Equal(t, "머리가 아픕니다.", rec.Field(types.FieldSymptoms).String())
}

func TestExtract_LinksPreferredForCategoricalFields(t *testing.T) {
	html := `<dl><dt>진료과</dt><dd>담당: <a href="/a">신경과</a> 및 <a href="/b">내과</a></dd></dl>`

	rec, err := labeledExtractor().Extract(html, "u", "편두통")
	require.NoError(t, err)
	assert.Equal(t, "신경과, 내과", rec.Field(types.FieldDepartment).String())
}

func TestExtract_NoDataSentinelPaths(t *testing.T) {
	// Symptoms label is absent entirely; department label exists with a blank value.
	html := `<dl><dt>진료과</dt><dd>   </dd></dl>`

	rec, err := labeledExtractor().Extract(html, "u", "편두통")
	require.NoError(t, err)

	absent := rec.Field(types.FieldSymptoms)
	blank := rec.Field(types.FieldDepartment)

	assert.Equal(t, types.NoData, absent)
	assert.Equal(t, types.NoData, blank)
	assert.NotEqual(t, types.Value("x"), absent)
	assert.False(t, absent.Present())
	assert.False(t, blank.Present())

	_, recorded := rec.Fields[types.FieldSymptoms]
	assert.True(t, recorded, "every declared field is recorded, even without data")
}

func TestExtract_SynonymsAreTokenized(t *testing.T) {
	html := `<dl><dt>동의어</dt><dd>Migraine,  Hemicrania
		편두통,, 두통증</dd></dl>`

	rec, err := labeledExtractor().Extract(html, "u", "편두통")
	require.NoError(t, err)
	assert.Equal(t, "Migraine, Hemicrania, 편두통, 두통증", rec.Field(types.FieldSynonyms).String())
}

func TestExtract_NameFromDisplayName(t *testing.T) {
	rec, err := labeledExtractor().Extract(`<p></p>`, "https://example.test/d/1", "Migraine(Hemicrania)")
	require.NoError(t, err)
	assert.Equal(t, "Migraine", rec.PrimaryName)
	assert.Equal(t, "Hemicrania", rec.AltName)
	assert.Equal(t, "https://example.test/d/1", rec.URL)
}

func TestExtract_TitleElementWinsOverDisplayName(t *testing.T) {
	e := &DetailExtractor{TitleSelector: "h3"}

	rec, err := e.Extract(`<h3>편두통 [Migraine]</h3>`, "u", "목록 이름")
	require.NoError(t, err)
	assert.Equal(t, "편두통", rec.PrimaryName)
	assert.Equal(t, "Migraine", rec.AltName)

	rec, err = e.Extract(`<h2>다른 제목</h2>`, "u", "통풍(Gout)")
	require.NoError(t, err)
	assert.Equal(t, "통풍", rec.PrimaryName)
	assert.Equal(t, "Gout", rec.AltName)
}

func TestExtract_MissingNameIsExtractionError(t *testing.T) {
	_, err := labeledExtractor().Extract(`<p></p>`, "https://example.test/d/9", "  ")
	require.Error(t, err)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "https://example.test/d/9", extractErr.URL)
}

func TestExtract_PanicInStrategyIsRecovered(t *testing.T) {
	e := &DetailExtractor{Fields: []FieldRule{{
		Name: types.FieldSymptoms,
		Strategies: []Strategy{{
			Locate: BySelector("p"),
			Read:   func(_ document.Node) []string { panic("boom") },
		}},
	}}}

	rec, err := e.Extract(`<p>x</p>`, "u", "name")
	assert.Nil(t, rec)

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Contains(t, err.Error(), "boom")
}

func TestFieldNames_PreservesDeclaredOrder(t *testing.T) {
	assert.Equal(t,
		[]types.FieldName{types.FieldSymptoms, types.FieldDepartment, types.FieldSynonyms},
		labeledExtractor().FieldNames())
}

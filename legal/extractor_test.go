package legal

import (
	"strings"
	"testing"

	"hukuk-asistani/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultLawRegistry())
}

func TestExtractor_FullLawArticle(t *testing.T) {
	ex := newTestExtractor()

	inputs := []string{
		"6098 sayılı Türk Borçlar Kanunu Madde 11",
		"Bu konuda 6098 sayılı Türk Borçlar Kanunu Madde 11 uygulanır.",
		"Sözleşme serbestisi için 6098 Sayılı Türk Borçlar Kanunu Madde 11 ve TBK hükümleri geçerlidir.",
	}
	for _, in := range inputs {
		refs := ex.Extract(in)
		var tier1 []models.LegalReference
		for _, r := range refs {
			if r.Tier == models.TierFullLawArticle {
				tier1 = append(tier1, r)
			}
		}
		require.Len(t, tier1, 1, in)
		assert.Equal(t, "6098", tier1[0].Number)
		assert.Equal(t, "11", tier1[0].Article)
		assert.Equal(t, "Türk Borçlar Kanunu", tier1[0].Name)
		assert.Equal(t, "6098 sayılı Türk Borçlar Kanunu Madde 11", tier1[0].Text)
		assert.Equal(t, MevzuatURL("6098", "11"), tier1[0].URL)
	}
}

func TestExtractor_FullLawKeepsKanunSuffix(t *testing.T) {
	refs := newTestExtractor().Extract("6502 sayılı Tüketicinin Korunması Hakkında Kanun Madde 5")
	require.NotEmpty(t, refs)
	assert.Equal(t, "6502 sayılı Tüketicinin Korunması Hakkında Kanun Madde 5", refs[0].Text)
	assert.Equal(t, models.TierFullLawArticle, refs[0].Tier)
}

func TestExtractor_NestedLawNumber(t *testing.T) {
	refs := newTestExtractor().Extract("6098 sayılı Türk Borçlar Kanunu ile 4857 sayılı İş Kanunu Madde 17 birlikte uygulanır.")
	texts := make([]string, len(refs))
	for i, r := range refs {
		texts[i] = r.Text
	}
	assert.Contains(t, texts, "4857 sayılı İş Kanunu Madde 17")
	assert.Contains(t, texts, "6098 sayılı Türk Borçlar Kanunu")
	assert.Equal(t, "4857 sayılı İş Kanunu Madde 17", refs[0].Text)
}

func TestExtractor_CodeArticleResolvesThroughRegistry(t *testing.T) {
	refs := newTestExtractor().Extract("TMK Madde 123")
	require.Len(t, refs, 1)
	ref := refs[0]
	assert.Equal(t, "TMK", ref.Code)
	assert.Equal(t, "4721", ref.Number)
	assert.Equal(t, "Türk Medeni Kanunu", ref.Name)
	assert.Equal(t, "123", ref.Article)
	assert.Equal(t, "TMK Madde 123", ref.Text)
	assert.Equal(t, models.TierCodeArticle, ref.Tier)
}

func TestExtractor_CodeArticleVariants(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"TCK md. 81 uyarınca", "TCK Madde 81"},
		{"TCK m.81 uyarınca", "TCK Madde 81"},
		{"İYUK Madde 7", "İYUK Madde 7"},
		{"KVKK Maddesi 6", "KVKK Madde 6"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			refs := newTestExtractor().Extract(tt.input)
			require.NotEmpty(t, refs)
			assert.Equal(t, tt.text, refs[0].Text)
			assert.NotEmpty(t, refs[0].Number)
		})
	}
}

func TestExtractor_BareArticleUsesNearbyLaw(t *testing.T) {
	refs := newTestExtractor().Extract("İş Kanunu kapsamında Madde 17 bildirim sürelerini düzenler.")
	require.Len(t, refs, 1)
	assert.Equal(t, "4857 sayılı İş Kanunu Madde 17", refs[0].Text)
	assert.Equal(t, "4857", refs[0].Number)
	assert.Equal(t, "17", refs[0].Article)
	assert.Equal(t, models.TierBareArticle, refs[0].Tier)
}

func TestExtractor_BareArticleWithoutContext(t *testing.T) {
	refs := newTestExtractor().Extract("Bu durumda Madde 5 uygulanır.")
	require.Len(t, refs, 1)
	assert.Equal(t, "Madde 5", refs[0].Text)
	assert.Empty(t, refs[0].Number)
	assert.Equal(t, models.TierBareArticle, refs[0].Tier)
}

func TestExtractor_BareLawWithoutArticle(t *testing.T) {
	refs := newTestExtractor().Extract("4857 sayılı iş kanunu işçileri korur.")
	require.Len(t, refs, 1)
	assert.Equal(t, "4857 sayılı İş Kanunu", refs[0].Text)
	assert.Equal(t, "4857", refs[0].Number)
	assert.Empty(t, refs[0].Article)
	assert.Equal(t, models.TierBareLaw, refs[0].Tier)
}

func TestExtractor_BareLawCaseEndings(t *testing.T) {
	tests := []struct {
		input  string
		text   string
		number string
		name   string
	}{
		{"5237 sayılı kanuna göre", "5237 sayılı Kanun", "5237", "Türk Ceza Kanunu"},
		{"6100 sayılı Kanunda yer alan", "6100 sayılı Kanun", "6100", "Hukuk Muhakemeleri Kanunu"},
		{"2004 sayılı kanunla getirilen", "2004 sayılı Kanun", "2004", "İcra ve İflas Kanunu"},
		{"6098 sayılı Yasaya aykırı", "6098 sayılı Yasa", "6098", "Türk Borçlar Kanunu"},
		{"5237 sayılı Kanunun ilgili hükmü", "5237 sayılı Kanunu", "5237", "Türk Ceza Kanunu"},
		{"4857 sayılı İş Kanununda", "4857 sayılı İş Kanunu", "4857", "İş Kanunu"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			refs := newTestExtractor().Extract(tt.input)
			require.Len(t, refs, 1)
			assert.Equal(t, tt.text, refs[0].Text)
			assert.Equal(t, tt.number, refs[0].Number)
			assert.Equal(t, tt.name, refs[0].Name)
			assert.Equal(t, models.TierBareLaw, refs[0].Tier)
		})
	}
}

func TestExtractor_CodeSpellingsShareOneReference(t *testing.T) {
	refs := newTestExtractor().Extract("İİK Madde 89 ve IIK Madde 89 aynı hükümdür.")
	require.Len(t, refs, 1)
	assert.Equal(t, "İİK", refs[0].Code)
	assert.Equal(t, "İİK Madde 89", refs[0].Text)
	assert.Equal(t, "2004", refs[0].Number)

	refs = newTestExtractor().Extract("IYUK ve İYUK birlikte anılır.")
	require.Len(t, refs, 1)
	assert.Equal(t, "İYUK", refs[0].Text)
	assert.Equal(t, "2577", refs[0].Number)
}

func TestExtractor_FullLawNameStopsAtEarlierLaw(t *testing.T) {
	refs := newTestExtractor().Extract("4857 sayılı İş Kanunu kapsamında işçinin hakları ile Türk Borçlar Kanunu Madde 5")

	for _, r := range refs {
		assert.False(t, r.Number == "4857" && r.Article == "5", "article attributed to the wrong statute: %q", r.Text)
		assert.NotEqual(t, models.TierFullLawArticle, r.Tier, "%q", r.Text)
	}
	var bare []string
	for _, r := range refs {
		if r.Tier == models.TierBareLaw && r.Number == "4857" {
			bare = append(bare, r.Text)
		}
	}
	assert.Equal(t, []string{"4857 sayılı İş Kanunu"}, bare)
}

func TestExtractor_BareCode(t *testing.T) {
	refs := newTestExtractor().Extract("Bu suç TCK kapsamında değerlendirilir.")
	require.Len(t, refs, 1)
	assert.Equal(t, "TCK", refs[0].Text)
	assert.Equal(t, "5237", refs[0].Number)
}

func TestExtractor_CodeInsideWordIgnored(t *testing.T) {
	refs := newTestExtractor().Extract("ASKER ve TMKA gibi kelimeler kanun değildir.")
	assert.Empty(t, refs)
}

func TestExtractor_CourtDecisions(t *testing.T) {
	text := "TMK Madde 166 yanında Yargıtay 2. Hukuk Dairesi 2019/1234 ve Danıştay İdari Dava Daireleri Genel Kurulu kararı ile Yargıtay Hukuk Genel Kurulu 2018/55 belirleyicidir."
	refs := newTestExtractor().Extract(text)

	require.GreaterOrEqual(t, len(refs), 3)
	assert.Equal(t, "TMK Madde 166", refs[0].Text)

	var courts []models.LegalReference
	for _, r := range refs {
		if r.Kind == models.KindCourt {
			courts = append(courts, r)
		}
	}
	require.Len(t, courts, 2)
	assert.Equal(t, "Yargıtay 2. Hukuk Dairesi 2019/1234", courts[0].Text)
	assert.Equal(t, "2019/1234", courts[0].Decision)
	assert.Equal(t, "Yargıtay Hukuk Genel Kurulu 2018/55", courts[1].Text)
	assert.Equal(t, models.KindCourt, refs[len(refs)-1].Kind)
}

func TestExtractor_RankingByTier(t *testing.T) {
	text := "TCK kapsamında da değerlendirilir. TMK Madde 5 ile 4721 sayılı Türk Medeni Kanunu Madde 2 hükümleri." +
		strings.Repeat(" açıklama", 15) + " Madde 3 ayrıca incelenmelidir."
	refs := newTestExtractor().Extract(text)

	require.Len(t, refs, 4)
	assert.Equal(t, "4721 sayılı Türk Medeni Kanunu Madde 2", refs[0].Text)
	assert.Equal(t, "TMK Madde 5", refs[1].Text)
	assert.Equal(t, "TCK", refs[2].Text)
	assert.Equal(t, "Madde 3", refs[3].Text)
	for i := 1; i < len(refs); i++ {
		assert.LessOrEqual(t, refs[i-1].Tier, refs[i].Tier)
	}
}

func TestExtractor_AlphabeticalWithinTier(t *testing.T) {
	refs := newTestExtractor().Extract("TTK Madde 1, ÇK Madde 2 ve CMK Madde 3")
	require.Len(t, refs, 3)
	assert.Equal(t, []string{"CMK Madde 3", "ÇK Madde 2", "TTK Madde 1"},
		[]string{refs[0].Text, refs[1].Text, refs[2].Text})
}

func TestExtractor_Deduplicates(t *testing.T) {
	text := strings.Repeat("TMK Madde 5 ve Madde 9 hükmü. ", 3) + "tmk madde 5"
	refs := newTestExtractor().Extract(text)

	seen := map[string]bool{}
	for _, r := range refs {
		assert.False(t, seen[r.Key()], "duplicate key %s", r.Key())
		seen[r.Key()] = true
	}
	assert.Len(t, refs, 2)
}

func TestExtractor_KeysUniqueAcrossMixedText(t *testing.T) {
	texts := []string{
		"4857 sayılı İş Kanunu Madde 17 ve İş Kanunu bağlamında Madde 17 aynı hükümdür.",
		"TCK TCK TCK Madde 1 Madde 1 5237 sayılı kanun 5237 sayılı kanun",
		"Yargıtay 9. Hukuk Dairesi 2020/1 Yargıtay 9. Hukuk Dairesi 2020/1",
	}
	for _, text := range texts {
		seen := map[string]bool{}
		for _, r := range newTestExtractor().Extract(text) {
			assert.False(t, seen[r.Key()], "%q: duplicate key %s", text, r.Key())
			seen[r.Key()] = true
		}
	}
}

func TestExtractor_EmptyIsNotNil(t *testing.T) {
	for _, in := range []string{"", "hiç atıf yok", "   \n\t"} {
		refs := newTestExtractor().Extract(in)
		assert.NotNil(t, refs)
		assert.Empty(t, refs)
	}
}

func TestExtractor_LawNameDoesNotCrossNewline(t *testing.T) {
	refs := newTestExtractor().Extract("6098 sayılı Türk Borçlar\nKanunu Madde 11")
	for _, r := range refs {
		assert.NotEqual(t, models.TierFullLawArticle, r.Tier, r.Text)
	}
}

func TestExtractor_RejectsOverlongNumbers(t *testing.T) {
	refs := newTestExtractor().Extract("123456 sayılı Deneme Kanunu Madde 1")
	for _, r := range refs {
		assert.NotEqual(t, "23456", r.Number)
		assert.NotEqual(t, "3456", r.Number)
	}
}

func TestExtractor_Texts(t *testing.T) {
	assert.Equal(t, []string{"TMK Madde 123"}, newTestExtractor().Texts("TMK Madde 123"))
}

type stubMatcher struct {
	name  string
	spans []Span
}

func (s stubMatcher) Name() string        { return s.name }
func (s stubMatcher) Match(string) []Span { return s.spans }

func TestExtractor_EarlierMatcherClaimsOverlap(t *testing.T) {
	strong := stubMatcher{name: "strong", spans: []Span{{Start: 0, End: 10, Reference: models.LegalReference{Text: "strong", Article: "1", Number: "1", Tier: 1}}}}
	weak := stubMatcher{name: "weak", spans: []Span{
		{Start: 5, End: 12, Reference: models.LegalReference{Text: "weak-overlap", Article: "2", Tier: 4}},
		{Start: 12, End: 15, Reference: models.LegalReference{Text: "weak-free", Article: "3", Tier: 4}},
	}}

	refs := NewExtractorWith([]Matcher{strong, weak}, nil).Extract("irrelevant text")
	require.Len(t, refs, 2)
	assert.Equal(t, "strong", refs[0].Text)
	assert.Equal(t, "weak-free", refs[1].Text)
}

package legal

import (
	"strings"
	"testing"

	"hukuk-asistani/models"

	"github.com/stretchr/testify/assert"
)

func newTestComposer() *Composer {
	ex := newTestExtractor()
	return NewComposer(NewClassifier(ex), NewSummarizer(ex))
}

func TestComposer_DoctrinalOrdering(t *testing.T) {
	prompt := newTestComposer().Compose("4857 sayılı İş Kanunu'nun 17. maddesi ne der?", nil)

	assert.Contains(t, prompt, "### Kullanıcı Sorusu: 4857 sayılı İş Kanunu'nun 17. maddesi ne der?")
	assert.Contains(t, prompt, "Tespit Edilen Hukuk Alanları: İş Hukuku")
	assert.Contains(t, prompt, "Pratik Bilgi Sorusu Mu: Hayır")
	assert.Contains(t, prompt, NoPriorContext)
	assert.Contains(t, prompt, "### Yanıt Biçimlendirme:")
	assert.NotContains(t, prompt, "### Yanıt Sıralaması:")

	assert.Less(t, strings.Index(prompt, SectionSummary), strings.Index(prompt, SectionQuotes))
	assert.Less(t, strings.Index(prompt, SectionQuotes), strings.Index(prompt, SectionCaseLaw))
	assert.Less(t, strings.Index(prompt, SectionCaseLaw), strings.Index(prompt, SectionPractical))
}

func TestComposer_PracticalOrdering(t *testing.T) {
	prompt := newTestComposer().Compose("Kıdem tazminatı almak için hangi belgeler gerekli?", nil)

	assert.Contains(t, prompt, "### Yanıt Sıralaması:")
	assert.Contains(t, prompt, "Pratik Bilgi Sorusu Mu: Evet")
	assert.Less(t, strings.Index(prompt, SectionPractical), strings.Index(prompt, SectionSummary))
	assert.Less(t, strings.Index(prompt, SectionSummary), strings.Index(prompt, SectionQuotes))
	assert.Less(t, strings.Index(prompt, SectionQuotes), strings.Index(prompt, SectionCaseLaw))
}

func TestComposer_SectionOrder(t *testing.T) {
	history := []models.ConversationExchange{{UserQuestion: "TMK Madde 166 nedir?", AssistantResponse: "Boşanma sebeplerini düzenler."}}
	prompt := newTestComposer().Compose("Peki nafaka?", history)

	order := []string{
		"### Kullanıcı Sorusu:",
		"### Konu Analizi:",
		"### Önceki Konuşma Bağlamı:",
		"### Cevap İçin Yönlendirmeler:",
		"### Kanun Madde Referansları:",
		"### Yanıt Biçimlendirme:",
		"### Yanıt Yapısı:",
	}
	last := -1
	for _, heading := range order {
		idx := strings.Index(prompt, heading)
		assert.Greater(t, idx, last, heading)
		last = idx
	}
	assert.Contains(t, prompt, "Bahsedilen Yasal Referanslar: TMK Madde 166")
	assert.Contains(t, prompt, `"6563 sayılı Elektronik Ticaretin Düzenlenmesi Hakkında Kanun Madde 5"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Cevabı çok uzun ve karmaşık yapmaktan kaçın."))
	assert.Contains(t, prompt, "```json\n{\n  \"legalReferences\"")
}

package legal

import (
	"strings"

	"hukuk-asistani/models"
)

type areaKeywords struct {
	area     models.LegalArea
	keywords []string
}

// Keywords are lower case; matching is a Turkish-aware substring test.
var legalAreas = []areaKeywords{
	{models.AreaCriminal, []string{"ceza", "suç", "hapis", "tutuklama", "soruşturma", "kovuşturma", "yakalama", "gözaltı", "mahkum", "sabıka", "türk ceza", "5237"}},
	{models.AreaCivil, []string{"evlilik", "boşanma", "velayet", "nafaka", "miras", "mal paylaşımı", "aile", "nişan", "maddi manevi tazminat", "medeni kanun", "4721"}},
	{models.AreaLabor, []string{"işveren", "işçi", "tazminat", "kıdem", "ihbar", "işten çıkarma", "iş akdi", "fesih", "mobbing", "fazla mesai", "yıllık izin", "iş kanunu", "4857"}},
	{models.AreaAdministrative, []string{"idari", "kamu", "memur", "devlet", "idari yargı", "iptal davası", "yürütmeyi durdurma", "kamu görevlisi", "disiplin cezası", "2577"}},
	{models.AreaCommercial, []string{"şirket", "ticari", "tacir", "iflas", "konkordato", "anonim", "limited", "hisse", "pay", "ticari defter", "bono", "çek", "poliçe", "ticaret kanunu", "6102"}},
	{models.AreaTax, []string{"vergi", "matrah", "mükellef", "beyanname", "maliye", "tahakkuk", "tahsil", "stopaj", "kdv", "gelir vergisi", "kurumlar vergisi"}},
	{models.AreaObligations, []string{"borç", "alacak", "temerrüt", "sözleşme", "ifa", "tazminat", "zarar", "ziyan", "imzasız senet", "ipotek", "kefil", "borçlu", "alacaklı", "borçlar kanunu", "6098"}},
	{models.AreaConsumer, []string{"tüketici", "ayıplı mal", "cayma", "ürün", "hizmet", "garanti", "iade", "sözleşmeden dönme", "tüketici hakem heyeti", "6502"}},
	{models.AreaSocialSecurity, []string{"emeklilik", "sigorta", "prim", "bağkur", "ssk", "sgk", "maluliyet", "yaşlılık", "ölüm aylığı", "yetim aylığı", "5510"}},
	{models.AreaLease, []string{"kira", "kiracı", "kiralayan", "tahliye", "taşınmaz", "konut", "işyeri", "depozito", "kefil", "kira artışı", "kira sözleşmesi"}},
}

// practicalKeywords only count when the question carries a question mark
var practicalKeywords = []string{
	"belge", "belgeler", "dokuman", "döküman", "evrak", "evraklar",
	"hangi", "nasıl", "ne gerekli", "gereklilik", "gerekli", "şart",
	"prosedür", "adım", "süreç", "işlem", "başvuru", "form",
	"ne yapmalıyım", "yapmam gereken", "nereye", "ne zaman",
	"ihtiyaç", "kaç gün", "süre", "maliyet", "ücret", "harç",
}

var practicalPhrases = []string{
	"hangi belge", "ne gerek", "nasıl yap", "gerekli olan", "ihtiyaç var", "neler gerek",
}

// Classification is the topic and intent analysis of a question
type Classification struct {
	Areas       []models.LegalArea
	IsPractical bool
	References  []string
}

// TopicBlock renders the classification as the labeled block embedded in prompts
func (c Classification) TopicBlock() string {
	areas := "Belirsiz"
	if len(c.Areas) > 0 {
		names := make([]string, len(c.Areas))
		for i, a := range c.Areas {
			names[i] = string(a)
		}
		areas = strings.Join(names, ", ")
	}
	refs := "Yok"
	if len(c.References) > 0 {
		refs = strings.Join(c.References, ", ")
	}
	practical := "Hayır"
	if c.IsPractical {
		practical = "Evet"
	}
	return "Tespit Edilen Hukuk Alanları: " + areas + "\n" +
		"Tespit Edilen Yasal Referanslar: " + refs + "\n" +
		"Pratik Bilgi Sorusu Mu: " + practical
}

// Classifier detects legal areas and procedural intent
type Classifier struct {
	extractor *Extractor
}

func NewClassifier(extractor *Extractor) *Classifier {
	return &Classifier{extractor: extractor}
}

// Classify analyses question. Areas keep their fixed declaration order.
func (c *Classifier) Classify(question string) Classification {
	return Classification{
		Areas:       DetectAreas(question),
		IsPractical: IsPractical(question),
		References:  c.extractor.Texts(question),
	}
}

// DetectAreas returns every area whose keyword appears in text
func DetectAreas(text string) []models.LegalArea {
	lower := turkishLower(text)
	areas := []models.LegalArea{}
	for _, a := range legalAreas {
		for _, kw := range a.keywords {
			if strings.Contains(lower, kw) {
				areas = append(areas, a.area)
				break
			}
		}
	}
	return areas
}

// IsPractical reports whether question asks for procedure rather than doctrine
func IsPractical(question string) bool {
	lower := turkishLower(question)
	if strings.Contains(lower, "?") && containsAny(lower, practicalKeywords) {
		return true
	}
	return containsAny(lower, practicalPhrases)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

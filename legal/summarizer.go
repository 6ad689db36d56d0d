package legal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hukuk-asistani/models"
)

// NoPriorContext is the digest of an empty conversation
const NoPriorContext = "Önceki konuşma bağlamı bulunmamaktadır."

const (
	contextExchanges   = 3
	summaryQuestionLen = 50
	shortAnswerLen     = 200
	longAnswerLen      = 800
)

var highCourts = []string{"Yargıtay", "Danıştay", "AYM"}

// Summarizer condenses the tail of a conversation into a prompt digest
type Summarizer struct {
	extractor *Extractor
}

func NewSummarizer(extractor *Extractor) *Summarizer {
	return &Summarizer{extractor: extractor}
}

// Summarize digests the last three exchanges of history. It never returns "".
func (s *Summarizer) Summarize(history []models.ConversationExchange) string {
	if len(history) == 0 {
		return NoPriorContext
	}
	if len(history) > contextExchanges {
		history = history[len(history)-contextExchanges:]
	}

	var refs []models.LegalReference
	var areas []models.LegalArea
	seenArea := make(map[models.LegalArea]bool)
	for _, ex := range history {
		combined := ex.UserQuestion + " " + ex.AssistantResponse
		refs = append(refs, s.extractor.Extract(combined)...)
		for _, a := range DetectAreas(combined) {
			if !seenArea[a] {
				seenArea[a] = true
				areas = append(areas, a)
			}
		}
	}

	topics := "Belirlenemedi"
	if len(areas) > 0 {
		names := make([]string, len(areas))
		for i, a := range areas {
			names[i] = string(a)
		}
		topics = strings.Join(names, ", ")
	}
	mentioned := "Yok"
	if unique := dedupe(refs); len(unique) > 0 {
		texts := make([]string, len(unique))
		for i, r := range unique {
			texts[i] = r.Text
		}
		mentioned = strings.Join(texts, ", ")
	}

	return "Önceki Konuşma Konuları: " + topics + "\n" +
		"Bahsedilen Yasal Referanslar: " + mentioned + "\n" +
		"Son Konuşma Özeti: " + s.summarizeExchange(history[len(history)-1])
}

func (s *Summarizer) summarizeExchange(ex models.ConversationExchange) string {
	return fmt.Sprintf("Kullanıcı '%s' konusunda sormuş, yanıtta %s bilgiler verilmiştir.",
		truncateRunes(ex.UserQuestion, summaryQuestionLen), s.characterize(ex.AssistantResponse))
}

// characterize describes an answer by reference count, length and case law
func (s *Summarizer) characterize(answer string) string {
	var traits []string
	if n := len(s.extractor.Extract(answer)); n > 0 {
		traits = append(traits, fmt.Sprintf("%d yasal referans içeren", n))
	}
	switch n := utf8.RuneCountInString(answer); {
	case n < shortAnswerLen:
		traits = append(traits, "kısa ve özet")
	case n > longAnswerLen:
		traits = append(traits, "detaylı ve kapsamlı")
	default:
		traits = append(traits, "orta uzunlukta")
	}
	if containsAny(answer, highCourts) {
		traits = append(traits, "içtihatlar içeren")
	}
	return strings.Join(traits, ", ")
}

package service

import (
	"context"
	"time"

	"hukuk-asistani/legal"
	"hukuk-asistani/metrics"
	"hukuk-asistani/models"

	"go.uber.org/zap"
)

// FallbackMessage is returned to the user when the model cannot be reached
const FallbackMessage = "Üzgünüm, şu anda Gemini API'ye bağlanırken bir sorun yaşıyorum. Lütfen başka bir zaman tekrar deneyin veya API anahtarınızı kontrol edin."

// ChatService answers legal questions
type ChatService struct {
	pipeline *legal.Pipeline
	chain    *FallbackChain
	logger   *zap.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

func WithChatLogger(logger *zap.Logger) ChatServiceOption {
	return func(s *ChatService) {
		s.logger = logger
	}
}

func WithChatMetrics(m *metrics.Metrics) ChatServiceOption {
	return func(s *ChatService) {
		s.metrics = m
	}
}

// WithModelTimeout bounds the whole fallback chain of one answer
func WithModelTimeout(d time.Duration) ChatServiceOption {
	return func(s *ChatService) {
		s.timeout = d
	}
}

func NewChatService(pipeline *legal.Pipeline, chain *FallbackChain, opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		pipeline: pipeline,
		chain:    chain,
		logger:   zap.NewNop(),
		metrics:  metrics.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer composes the enriched prompt, asks the model and post-processes the
// reply. It never fails: when every strategy fails the apology is returned
// with Error set.
func (s *ChatService) Answer(ctx context.Context, question string, history []models.ConversationExchange) models.StructuredAnswer {
	prompt := s.pipeline.Composer.Compose(question, history)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.chain.Run(ctx, StrategyRequest{
		SystemPrompt: legal.SystemPrompt,
		Prompt:       prompt,
		History:      history,
	})
	if err != nil {
		s.logger.Error("All answer strategies failed", zap.Error(err))
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeFallback).Inc()
		return FallbackAnswer()
	}

	answer := s.pipeline.PostProcessor.Process(raw)
	s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeAnswered).Inc()
	if len(answer.LegalReferences) > 0 {
		s.metrics.References.WithLabelValues(string(answer.ReferenceSource)).Add(float64(len(answer.LegalReferences)))
	}
	s.logger.Debug("Answered chat question",
		zap.Int("references", len(answer.LegalReferences)),
		zap.String("reference_source", string(answer.ReferenceSource)))
	return answer
}

// FallbackAnswer is the answer sent when the model is unavailable
func FallbackAnswer() models.StructuredAnswer {
	return models.StructuredAnswer{
		CleanedText:     FallbackMessage,
		LegalReferences: []models.LegalReference{},
		Error:           true,
	}
}

// RelatedCase is a court decision listed next to a reference
type RelatedCase struct {
	Title   string `json:"title"`
	Court   string `json:"court"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

// ReferenceDetail is the payload of GET /legal-reference/:reference
type ReferenceDetail struct {
	Reference            string                 `json:"reference"`
	Text                 string                 `json:"text"`
	RelatedCases         []RelatedCase          `json:"relatedCases"`
	DoctrinePerspectives string                 `json:"doctrinePerspectives"`
	Resolved             *models.LegalReference `json:"resolved,omitempty"`
}

var demoRelatedCases = []RelatedCase{
	{
		Title:   "Örnek Yargıtay Kararı 2023/1234",
		Court:   "Yargıtay 9. Hukuk Dairesi",
		Date:    "15.03.2023",
		Summary: "Bu kararda mahkeme, işverenin geçerli nedene dayanmaksızın iş akdini feshettiğine hükmetmiştir.",
	},
	{
		Title:   "Örnek Danıştay Kararı 2022/4578",
		Court:   "Danıştay 8. Dairesi",
		Date:    "22.06.2022",
		Summary: "Bu kararda mahkeme, idari işlemin hukuka aykırı olduğuna karar vermiştir.",
	},
}

const demoDoctrine = "Hukuk doktrininde bu konu hakkında farklı görüşler bulunmaktadır. Bazı hukukçular maddenin dar yorumlanması gerektiğini savunurken, diğerleri geniş yorumu savunmaktadır."

// ReferenceDetails returns demo material for reference. When the reference
// text names a resolvable statute, the structured form is attached.
func (s *ChatService) ReferenceDetails(reference string) ReferenceDetail {
	detail := ReferenceDetail{
		Reference: reference,
		Text: "Bu, " + reference + " için örnek bir yasal metin içeriğidir. " +
			"Gerçek uygulamada burada ilgili kanun maddesinin tam metni olacaktır.",
		RelatedCases:         append([]RelatedCase(nil), demoRelatedCases...),
		DoctrinePerspectives: demoDoctrine,
	}

	for _, ref := range s.pipeline.Extractor.Extract(reference) {
		if ref.Kind != models.KindStatute {
			continue
		}
		if ref.Code != "" && ref.Number == "" {
			if law, ok := s.pipeline.Registry.Resolve(ref.Code); ok {
				ref.Number, ref.Name = law.Number, law.Name
			}
		}
		if ref.URL == "" {
			ref.URL = legal.MevzuatURL(ref.Number, ref.Article)
		}
		detail.Resolved = &ref
		break
	}
	return detail
}

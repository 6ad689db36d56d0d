package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hukuk-asistani/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

	// ErrEmptyResponse is returned when the model answers without any text
	ErrEmptyResponse = errors.New("model returned empty content")
)

// GenerationOptions tunes a single model call
type GenerationOptions struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	MaxOutputTokens int32
}

var (
	// ChatOptions is used for legal chat answers
	ChatOptions = GenerationOptions{Temperature: 0.2, TopK: 40, TopP: 0.95, MaxOutputTokens: 8192}

	// PetitionOptions is used for petition drafting
	PetitionOptions = GenerationOptions{Temperature: 0.1, TopK: 20, TopP: 0.95, MaxOutputTokens: 8192}

	ocrOptions = GenerationOptions{Temperature: 0, TopK: 1}
)

// Turn is one message of a chat history
type Turn struct {
	Role string
	Text string
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// LanguageModel answers text prompts
type LanguageModel interface {
	GenerateText(ctx context.Context, opts GenerationOptions, prompt string) (string, error)
	Chat(ctx context.Context, opts GenerationOptions, history []Turn, prompt string) (string, error)
}

// ImageRecognizer reads the text printed in an image
type ImageRecognizer interface {
	RecognizeText(ctx context.Context, format string, data []byte) (string, error)
}

const ocrInstruction = "Bu görseldeki tüm metni Türkçe karakterleri koruyarak olduğu gibi çıkar. " +
	"Yalnızca metni döndür, yorum veya açıklama ekleme."

var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
}

// GeminiClient implements LanguageModel and ImageRecognizer on the Gemini API
type GeminiClient struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// GeminiOption is a functional option for GeminiClient
type GeminiOption func(*GeminiClient)

// WithModelName selects the Gemini model
func WithModelName(name string) GeminiOption {
	return func(g *GeminiClient) {
		if name != "" {
			g.modelName = name
		}
	}
}

// WithGeminiLogger sets the logger
func WithGeminiLogger(logger *zap.Logger) GeminiOption {
	return func(g *GeminiClient) {
		g.logger = logger
	}
}

// NewGeminiClient creates a Gemini client authenticated with apiKey
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	g := &GeminiClient{modelName: "gemini-1.5-pro", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Close releases the underlying connection
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) model(opts GenerationOptions) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.modelName)
	m.SafetySettings = safetySettings
	m.SetTemperature(opts.Temperature)
	if opts.TopK > 0 {
		m.SetTopK(opts.TopK)
	}
	if opts.TopP > 0 {
		m.SetTopP(opts.TopP)
	}
	if opts.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	return m
}

// GenerateText sends prompt as a single user turn
func (g *GeminiClient) GenerateText(ctx context.Context, opts GenerationOptions, prompt string) (string, error) {
	resp, err := g.model(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return g.responseText(resp)
}

// Chat replays history as a chat session and sends prompt
func (g *GeminiClient) Chat(ctx context.Context, opts GenerationOptions, history []Turn, prompt string) (string, error) {
	cs := g.model(opts).StartChat()
	cs.History = make([]*genai.Content, 0, len(history))
	for _, t := range history {
		cs.History = append(cs.History, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return g.responseText(resp)
}

// RecognizeText asks the model to transcribe an image. format is the image
// subtype, e.g. "jpeg" or "png".
func (g *GeminiClient) RecognizeText(ctx context.Context, format string, data []byte) (string, error) {
	resp, err := g.model(ocrOptions).GenerateContent(ctx,
		genai.ImageData(format, data),
		genai.Text(ocrInstruction),
	)
	if err != nil {
		return "", err
	}
	return g.responseText(resp)
}

func (g *GeminiClient) responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			g.logger.Warn("Candidate finished early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()))
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// HistoryTurns converts stored exchanges to alternating user/model turns
func HistoryTurns(history []models.ConversationExchange) []Turn {
	turns := make([]Turn, 0, 2*len(history))
	for _, ex := range history {
		turns = append(turns,
			Turn{Role: RoleUser, Text: ex.UserQuestion},
			Turn{Role: RoleModel, Text: ex.AssistantResponse},
		)
	}
	return turns
}

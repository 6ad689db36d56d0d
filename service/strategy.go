package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"hukuk-asistani/metrics"
	"hukuk-asistani/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// SystemAcknowledgement is the model turn that follows the system prompt in
// chat sessions
const SystemAcknowledgement = "Anlaşıldı, hukuki konularda kanun maddeleri ve içtihatlara referans vererek yanıt vereceğim."

const directSeparator = "\n\nKULLANICI SORUSU: "

// FailureReason classifies why a model call failed
type FailureReason string

const (
	ReasonNetwork       FailureReason = "network"
	ReasonTimeout       FailureReason = "timeout"
	ReasonAuth          FailureReason = "auth"
	ReasonQuota         FailureReason = "quota"
	ReasonBlocked       FailureReason = "blocked"
	ReasonEmptyResponse FailureReason = "empty_response"
	ReasonUpstream      FailureReason = "upstream"
	ReasonUnknown       FailureReason = "unknown"
)

// ErrAllStrategiesFailed matches a *ChainError with errors.Is
var ErrAllStrategiesFailed = errors.New("all answer strategies failed")

// StrategyRequest is what every strategy receives
type StrategyRequest struct {
	SystemPrompt string
	Prompt       string
	History      []models.ConversationExchange
}

// AnswerStrategy is one way of asking the model
type AnswerStrategy interface {
	Name() string
	Answer(ctx context.Context, req StrategyRequest) (string, error)
}

// DirectStrategy sends system prompt and composed prompt as one message
type DirectStrategy struct {
	model LanguageModel
	opts  GenerationOptions
}

func NewDirectStrategy(model LanguageModel, opts GenerationOptions) *DirectStrategy {
	return &DirectStrategy{model: model, opts: opts}
}

func (s *DirectStrategy) Name() string { return "direct" }

func (s *DirectStrategy) Answer(ctx context.Context, req StrategyRequest) (string, error) {
	return s.model.GenerateText(ctx, s.opts, req.SystemPrompt+directSeparator+req.Prompt)
}

// ChatStrategy opens a chat session seeded with the system prompt, its
// acknowledgement and the full conversation history
type ChatStrategy struct {
	model LanguageModel
	opts  GenerationOptions
}

func NewChatStrategy(model LanguageModel, opts GenerationOptions) *ChatStrategy {
	return &ChatStrategy{model: model, opts: opts}
}

func (s *ChatStrategy) Name() string { return "chat" }

func (s *ChatStrategy) Answer(ctx context.Context, req StrategyRequest) (string, error) {
	history := append([]Turn{
		{Role: RoleUser, Text: req.SystemPrompt},
		{Role: RoleModel, Text: SystemAcknowledgement},
	}, HistoryTurns(req.History)...)
	return s.model.Chat(ctx, s.opts, history, req.Prompt)
}

// StrategyError records a failed strategy
type StrategyError struct {
	Strategy string
	Reason   FailureReason
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s strategy failed (%s): %v", e.Strategy, e.Reason, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }

// ChainError is returned when no strategy produced an answer
type ChainError struct {
	Failures []*StrategyError
}

func (e *ChainError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return ErrAllStrategiesFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ChainError) Is(target error) bool { return target == ErrAllStrategiesFailed }

func (e *ChainError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FallbackChain tries strategies in order until one answers
type FallbackChain struct {
	strategies []AnswerStrategy
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewFallbackChain(logger *zap.Logger, m *metrics.Metrics, strategies ...AnswerStrategy) *FallbackChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &FallbackChain{strategies: strategies, logger: logger, metrics: m}
}

// Run returns the first non-empty answer. Once ctx is done no further
// strategy is attempted.
func (c *FallbackChain) Run(ctx context.Context, req StrategyRequest) (string, error) {
	chainErr := &ChainError{}
	for _, s := range c.strategies {
		text, err := s.Answer(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			return text, nil
		}

		se := &StrategyError{Strategy: s.Name(), Reason: ClassifyFailure(err), Err: err}
		chainErr.Failures = append(chainErr.Failures, se)
		c.metrics.StrategyFailures.WithLabelValues(se.Strategy, string(se.Reason)).Inc()
		c.logger.Warn("Answer strategy failed",
			zap.String("strategy", se.Strategy),
			zap.String("reason", string(se.Reason)),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}
	return "", chainErr
}

// ClassifyFailure maps a model call error to a FailureReason
func ClassifyFailure(err error) FailureReason {
	if err == nil {
		return ""
	}

	var blocked *genai.BlockedError
	var gErr *googleapi.Error
	var apiErr *apierror.APIError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ErrMissingAPIKey):
		return ReasonAuth
	case errors.Is(err, ErrEmptyResponse):
		return ReasonEmptyResponse
	case errors.As(err, &blocked):
		return ReasonBlocked
	case errors.As(err, &gErr):
		return reasonForStatus(gErr.Code, gErr.Message)
	case errors.As(err, &apiErr):
		if apiErr.Reason() == "API_KEY_INVALID" {
			return ReasonAuth
		}
		if code := apiErr.HTTPCode(); code > 0 {
			return reasonForStatus(code, apiErr.Error())
		}
		return ReasonUpstream
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonNetwork
	}
	return ReasonUnknown
}

func reasonForStatus(code int, message string) FailureReason {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ReasonAuth
	case code == http.StatusBadRequest && strings.Contains(message, "API key"):
		return ReasonAuth
	case code == http.StatusTooManyRequests:
		return ReasonQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ReasonTimeout
	}
	return ReasonUpstream
}

package service

import (
	"context"
	"sync"
)

type fakeModel struct {
	mu sync.Mutex

	generate func(ctx context.Context, opts GenerationOptions, prompt string) (string, error)
	chat     func(ctx context.Context, opts GenerationOptions, history []Turn, prompt string) (string, error)

	prompts []string
	history []Turn
}

func (f *fakeModel) GenerateText(ctx context.Context, opts GenerationOptions, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.generate == nil {
		return "", ErrEmptyResponse
	}
	return f.generate(ctx, opts, prompt)
}

func (f *fakeModel) Chat(ctx context.Context, opts GenerationOptions, history []Turn, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.history = history
	f.mu.Unlock()
	if f.chat == nil {
		return "", ErrEmptyResponse
	}
	return f.chat(ctx, opts, history, prompt)
}

type fakeRecognizer struct {
	text   string
	err    error
	format string
}

func (f *fakeRecognizer) RecognizeText(ctx context.Context, format string, data []byte) (string, error) {
	f.format = format
	return f.text, f.err
}

type staticStrategy struct {
	name string
	text string
	err  error
	hits int
}

func (s *staticStrategy) Name() string { return s.name }

func (s *staticStrategy) Answer(ctx context.Context, req StrategyRequest) (string, error) {
	s.hits++
	return s.text, s.err
}

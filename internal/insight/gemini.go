package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini GenerateContent API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator builds a client for apiKey. It returns ErrNotConfigured
// for an empty key instead of letting the SDK fall back to its own
// environment lookup.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	return NewGeminiGeneratorWithConfig(ctx, &genai.ClientConfig{APIKey: apiKey})
}

// NewGeminiGeneratorWithConfig builds a generator from an explicit client
// config, for example one pointing HTTPOptions.BaseURL at another endpoint.
// The backend is always the Gemini API.
func NewGeminiGeneratorWithConfig(ctx context.Context, cfg *genai.ClientConfig) (*GeminiGenerator, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	cc := *cfg
	cc.Backend = genai.BackendGeminiAPI
	client, err := genai.NewClient(ctx, &cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Generate sends one single-turn prompt and returns the concatenated text of
// the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}

// NewGenerator returns the generator for apiKey, or a nil Generator when no
// key is configured. The nil interface is what Pipeline treats as
// "not configured".
func NewGenerator(ctx context.Context, apiKey string) (Generator, error) {
	g, err := NewGeminiGenerator(ctx, apiKey)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

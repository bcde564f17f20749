package continuation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"grammateus/internal/logger"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("google API key not configured")

// Generator is the part of the Gemini API that continuation needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements Generator with the Gemini API.
// The underlying client is created on first use.
type GeminiGenerator struct {
	apiKey     string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiGenerator creates a generator for apiKey.
func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{apiKey: apiKey}
}

// WithHTTPClient sets the HTTP client used for requests.
func (g *GeminiGenerator) WithHTTPClient(c *http.Client) *GeminiGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.httpClient = c
	g.client = nil
	return g
}

// IsConfigured reports whether an API key is set.
func (g *GeminiGenerator) IsConfigured() bool {
	return g.apiKey != ""
}

func (g *GeminiGenerator) initializeClientIfNeeded(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	cfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.httpClient != nil {
		cfg.HTTPClient = g.httpClient
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	logger.Debug("Gemini client initialized", "provider", "gemini")

	g.client = client
	return client, nil
}

// GenerateContent sends one generate request.
func (g *GeminiGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := g.initializeClientIfNeeded(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	return result, nil
}

// Package gemini implements models.AnalysisProvider on the Gemini
// generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kiranshivaraju/brewlog/internal/ai"
	"github.com/kiranshivaraju/brewlog/internal/config"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const (
	defaultModel   = "gemini-2.0-flash"
	rateLimitPause = 30 * time.Second
)

// Provider implements models.AnalysisProvider using Gemini.
type Provider struct {
	client  *genai.Client
	model   string
	limiter *rateLimiter
}

// NewProvider creates a Gemini provider. httpClient may be nil.
func NewProvider(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &Provider{
		client:  client,
		model:   model,
		limiter: newRateLimiter(cfg.RequestsPerMin),
	}, nil
}

func (p *Provider) Name() string { return "gemini" }

// Model returns the configured model name.
func (p *Provider) Model() string { return p.model }

func (p *Provider) Analyze(ctx context.Context, log []models.Experiment) (models.AnalysisResult, error) {
	prompt, err := ai.BuildPrompt(log)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return models.AnalysisResult{}, classifyError(err)
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			p.limiter.Backoff(rateLimitPause)
		}
		return models.AnalysisResult{}, classifyError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	slog.Debug("gemini response received",
		"model", p.model,
		"experiments", len(log),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return ai.ParseAnalysis(text)
}

// extractText pulls the first candidate's first part out of the envelope.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ai.ErrInvalidResponse)
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: empty candidate content", ai.ErrInvalidResponse)
	}
	return c.Content.Parts[0].Text, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ai.ErrInferenceTimeout, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusGatewayTimeout {
			return fmt.Errorf("%w: %v", ai.ErrInferenceTimeout, err)
		}
		return fmt.Errorf("%w: status %d: %s", ai.ErrProviderUnavailable, apiErr.Code, apiErr.Message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ai.ErrInferenceTimeout, err)
	}

	return fmt.Errorf("%w: %v", ai.ErrProviderUnavailable, err)
}

// Compile-time check that Provider implements AnalysisProvider.
var _ models.AnalysisProvider = (*Provider)(nil)

// Package provider selects the analysis backend named in configuration.
package provider

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/brewlog/internal/ai/gemini"
	"github.com/kiranshivaraju/brewlog/internal/ai/mock"
	"github.com/kiranshivaraju/brewlog/internal/config"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// New constructs the configured provider. Called once at server startup.
func New(ctx context.Context, cfg config.AIConfig) (models.AnalysisProvider, error) {
	switch cfg.Provider {
	case "gemini":
		p, err := gemini.NewProvider(ctx, cfg.Gemini, nil)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, mock", cfg.Provider)
	}
}

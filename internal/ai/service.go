package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/brewlog/internal/analysis"
	"github.com/kiranshivaraju/brewlog/internal/cache"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const matrixSize = 8

// AnalysisService orchestrates one analysis run over the experiment log.
type AnalysisService struct {
	provider models.AnalysisProvider
	cache    cache.Cache
	timeout  time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAnalysisService creates a new AnalysisService. A cacheTTL of zero
// disables result caching.
func NewAnalysisService(provider models.AnalysisProvider, ca cache.Cache, timeout, cacheTTL time.Duration) *AnalysisService {
	if ca == nil {
		ca = cache.NopCache{}
	}
	return &AnalysisService{
		provider: provider,
		cache:    ca,
		timeout:  timeout,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// ProviderName returns the name of the injected provider.
func (s *AnalysisService) ProviderName() string {
	return s.provider.Name()
}

// Analyze runs the provider over log. An empty log yields (nil, nil)
// without contacting the provider.
func (s *AnalysisService) Analyze(ctx context.Context, log []models.Experiment) (result *models.AnalysisResult, err error) {
	if len(log) == 0 {
		return nil, nil
	}

	fp := analysis.Fingerprint(log)
	key := cache.AnalysisKey(s.provider.Name(), fp)

	if s.cacheTTL > 0 {
		if cached, ok := s.fromCache(ctx, key); ok {
			slog.Info("analysis cache hit", "fingerprint", fp[:12], "experiments", len(log))
			return cached, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in provider", "error", r, "provider", s.provider.Name())
			result = nil
			err = fmt.Errorf("%w: provider panic: %v", ErrInvalidResponse, r)
		}
	}()

	analysisCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.provider.Analyze(analysisCtx, log)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrInferenceTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return nil, err
	}

	if len(res.FullBrewMatrix) != matrixSize {
		slog.Warn("unexpected matrix size", "entries", len(res.FullBrewMatrix), "provider", s.provider.Name())
	}

	res.AnalysisSummary = truncateString(res.AnalysisSummary, 4000)
	for i := range res.FullBrewMatrix {
		res.FullBrewMatrix[i].Reasoning = truncateString(res.FullBrewMatrix[i].Reasoning, 2000)
	}
	res.Provider = s.provider.Name()
	res.CreatedAt = s.now().UTC()

	if s.cacheTTL > 0 {
		if b, err := json.Marshal(res); err == nil {
			if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
				slog.Warn("caching analysis failed", "error", err)
			}
		}
	}

	return &res, nil
}

func (s *AnalysisService) fromCache(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	b, found, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("reading analysis cache failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var res models.AnalysisResult
	if err := json.Unmarshal(b, &res); err != nil {
		slog.Warn("discarding malformed cached analysis", "error", err)
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("evicting cached analysis failed", "error", err)
		}
		return nil, false
	}
	return &res, true
}

// truncateString truncates s to maxBytes without splitting UTF-8 runes.
func truncateString(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}

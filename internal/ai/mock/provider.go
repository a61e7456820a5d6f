package mock

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/brewlog/internal/ai"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// MockProvider satisfies models.AnalysisProvider for testing and offline use.
type MockProvider struct {
	Name_       string
	AnalyzeFunc func(ctx context.Context, log []models.Experiment) (models.AnalysisResult, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Analyze(ctx context.Context, log []models.Experiment) (models.AnalysisResult, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, log)
	}
	return models.AnalysisResult{}, nil
}

// NewMockProvider returns a MockProvider that answers with the notional
// perfect midpoints for every matrix cell, keyed off the latest experiment.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		AnalyzeFunc: func(_ context.Context, log []models.Experiment) (models.AnalysisResult, error) {
			return Result(log), nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		AnalyzeFunc: func(_ context.Context, _ []models.Experiment) (models.AnalysisResult, error) {
			return models.AnalysisResult{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		AnalyzeFunc: func(ctx context.Context, _ []models.Experiment) (models.AnalysisResult, error) {
			<-ctx.Done()
			return models.AnalysisResult{}, ai.ErrInferenceTimeout
		},
	}
}

// Result builds the canned analysis for log.
func Result(log []models.Experiment) models.AnalysisResult {
	last := models.Experiment{
		GrindSetting: "Fine",
		TampPressure: "25",
		ShotType:     models.ShotDouble,
		FilterType:   models.FilterSingleWall,
	}
	if len(log) > 0 {
		last = log[len(log)-1]
	}

	matrix := make([]models.MatrixEntry, 0, 8)
	for _, cell := range ai.MatrixCells() {
		grind := last.GrindSetting
		if cell.CoffeeType == models.CoffeePreGround {
			grind = models.PreGroundGrind
		} else if grind == models.PreGroundGrind {
			grind = "Fine"
		}
		matrix = append(matrix, models.MatrixEntry{
			Suggestion: midpoint(cell.ShotType, cell.FilterType, grind, last.TampPressure),
			CoffeeType: cell.CoffeeType,
			Reasoning:  fmt.Sprintf("Centre of the notional range for a %s shot in a %s basket.", cell.ShotType, cell.FilterType),
		})
	}

	next := midpoint(last.ShotType, last.FilterType, last.GrindSetting, last.TampPressure)
	if e, ok := brew.Select(matrix, last.ShotType, last.FilterType, brew.CoffeeTypeFor(last.GrindSetting)); ok {
		next = e.Suggestion
	}

	return models.AnalysisResult{
		SignificantFactors:  []string{brew.FactorGrind, brew.FactorDose},
		NextBrewSuggestions: next,
		FullBrewMatrix:      matrix,
		AnalysisSummary:     fmt.Sprintf("Mock analysis over %d experiments.", len(log)),
	}
}

func midpoint(shot, filter, grind, tamp string) models.Suggestion {
	s := models.Suggestion{
		GrindSetting: grind,
		TampPressure: tamp,
		ShotType:     shot,
		FilterType:   filter,
	}
	if s.TampPressure == "" {
		s.TampPressure = "25"
	}
	r, ok := brew.Resolve(shot, filter)
	if !ok {
		return s
	}
	yield := (r.YieldMin + r.YieldMax) / 2
	brewTime := (r.TimeMin + r.TimeMax) / 2
	temp := (r.TempMin + r.TempMax) / 2
	s.DoseGrams = (r.DoseMin + r.DoseMax) / 2
	s.YieldGrams = &yield
	s.BrewTimeSeconds = &brewTime
	s.WaterTempCelsius = &temp
	return s
}

// Compile-time check that MockProvider implements AnalysisProvider.
var _ models.AnalysisProvider = (*MockProvider)(nil)

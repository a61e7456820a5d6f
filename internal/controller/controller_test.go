package controller_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kiranshivaraju/brewlog/internal/ai"
	"github.com/kiranshivaraju/brewlog/internal/ai/mock"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/internal/controller"
	"github.com/kiranshivaraju/brewlog/internal/store"
	"github.com/kiranshivaraju/brewlog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- fakes ---

type memStore struct {
	mu      sync.Mutex
	log     []models.Experiment
	saves   int
	cleared bool
	loadErr error
	saveErr error
}

func (s *memStore) Load(context.Context) ([]models.Experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return []models.Experiment{}, s.loadErr
	}
	out := make([]models.Experiment, len(s.log))
	copy(out, s.log)
	return out, nil
}

func (s *memStore) Save(_ context.Context, log []models.Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.log = make([]models.Experiment, len(log))
	copy(s.log, log)
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
	s.cleared = true
	return nil
}

func (s *memStore) snapshot() []models.Experiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Experiment(nil), s.log...)
}

type funcAnalyzer func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error)

func (f funcAnalyzer) Analyze(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
	return f(ctx, log)
}

func mockAnalyzer() funcAnalyzer {
	return func(_ context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		r := mock.Result(log)
		return &r, nil
	}
}

func failingAnalyzer(err error) funcAnalyzer {
	return func(context.Context, []models.Experiment) (*models.AnalysisResult, error) {
		return nil, err
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(s controller.LogStore, a controller.Analyzer) *controller.Controller {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return controller.New(s, a, controller.Options{
		Now:    func() time.Time { return fixed },
		Logger: quietLogger(),
	})
}

func validForm() models.FormState {
	return models.FormState{
		GrindSetting: "Fine",
		DoseGrams:    "18",
		TampPressure: "25",
		ShotType:     models.ShotDouble,
		FilterType:   models.FilterSingleWall,
		WaterTemp:    "93",
		TempUnit:     models.UnitCelsius,
	}
}

// --- Record ---

func TestRecord_AppendsPersistsAndAnalyzes(t *testing.T) {
	st := &memStore{}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	exp, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, 18.0, exp.DoseGrams)
	require.NotNil(t, exp.WaterTempCelsius)
	assert.InDelta(t, 93.0, *exp.WaterTempCelsius, 1e-9)
	assert.Nil(t, exp.TasteRating)
	assert.Equal(t, "", exp.Notes)
	assert.Equal(t, "2025-03-14", exp.Date)

	if diff := cmp.Diff(c.Log(), st.snapshot()); diff != "" {
		t.Errorf("persisted log differs (-memory +stored):\n%s", diff)
	}

	state := c.State()
	assert.Equal(t, models.AnalysisStatusSucceeded, state.Status)
	assert.False(t, state.Busy)
	require.NotNil(t, state.Result)
	require.NotNil(t, state.Selection)
	assert.Equal(t, models.Selection{
		ShotType: models.ShotDouble, FilterType: models.FilterSingleWall, CoffeeType: models.CoffeeBean,
	}, *state.Selection)
	require.NotNil(t, state.Displayed)
	assert.Equal(t, state.Result.NextBrewSuggestions, *state.Displayed)
}

func TestRecord_PrefillsFormFromPrimarySuggestion(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	form.TasteRating = "4"
	form.Notes = "sour"
	_, err := c.UpdateForm(form)
	require.NoError(t, err)

	_, err = c.Record(context.Background(), form)
	require.NoError(t, err)
	c.Wait()

	f := c.Form().Form
	assert.Equal(t, "18", f.DoseGrams)
	assert.Equal(t, "93.0", f.WaterTemp)
	assert.Equal(t, "Fine", f.GrindSetting)
	assert.Empty(t, f.TasteRating)
	assert.Empty(t, f.Notes)
}

func TestRecord_InvalidFormRecordsNothing(t *testing.T) {
	st := &memStore{}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	form.DoseGrams = ""

	_, err := c.Record(context.Background(), form)
	assert.ErrorIs(t, err, brew.ErrMissingField)
	assert.Empty(t, c.Log())
	assert.Zero(t, st.saves)
	assert.Equal(t, models.AnalysisStatusIdle, c.State().Status)
}

func TestRecord_NeverMutatesEarlierEntries(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()
	ctx := context.Background()

	_, err := c.Record(ctx, validForm())
	require.NoError(t, err)
	before := c.Log()

	second := validForm()
	second.ShotType = models.ShotSingle
	_, err = c.Record(ctx, second)
	require.NoError(t, err)
	c.Wait()

	after := c.Log()
	require.Len(t, after, len(before)+1)
	if diff := cmp.Diff(before, after[:len(before)]); diff != "" {
		t.Errorf("earlier entries changed (-before +after):\n%s", diff)
	}
}

func TestRecord_IDsStayUniqueWithinSameMillisecond(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()
	ctx := context.Background()

	a, err := c.Record(ctx, validForm())
	require.NoError(t, err)
	b, err := c.Record(ctx, validForm())
	require.NoError(t, err)
	c.Wait()

	assert.Greater(t, b.ID, a.ID)
}

func TestRecord_SaveFailureIsSwallowed(t *testing.T) {
	st := &memStore{saveErr: errors.New("quota exceeded")}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	assert.Len(t, c.Log(), 1)
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, models.AnalysisStatusSucceeded, c.State().Status)
}

// --- analysis outcomes ---

func TestAnalysis_FailureClearsPreviousResult(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	a := funcAnalyzer(func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, ai.ErrProviderUnavailable
		}
		r := mock.Result(log)
		return &r, nil
	})
	c := newController(&memStore{}, a)
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()
	require.NotNil(t, c.State().Result)

	mu.Lock()
	fail = true
	mu.Unlock()

	require.True(t, c.Analyze())
	c.Wait()

	state := c.State()
	assert.Equal(t, models.AnalysisStatusFailed, state.Status)
	assert.Nil(t, state.Result)
	assert.Nil(t, state.Selection)
	assert.Nil(t, state.Displayed)
	assert.Contains(t, state.Error, "Failed to get AI suggestions: ")
	assert.Equal(t, "AI_PROVIDER_UNAVAILABLE", state.ErrorCode)
	assert.Len(t, c.Log(), 1)

	c.DismissError()
	assert.Empty(t, c.State().Error)
	assert.Empty(t, c.State().ErrorCode)
}

func TestAnalysis_InvalidResponseMessage(t *testing.T) {
	c := newController(&memStore{}, failingAnalyzer(ai.ErrInvalidResponse))
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, "AI response structure was unexpected or content was missing.", c.State().Error)
	assert.Equal(t, "AI_INVALID_RESPONSE", c.State().ErrorCode)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ai.ErrProviderUnavailable, "AI_PROVIDER_UNAVAILABLE"},
		{fmt.Errorf("wrapped: %w", ai.ErrInferenceTimeout), "AI_INFERENCE_TIMEOUT"},
		{ai.ErrInvalidResponse, "AI_INVALID_RESPONSE"},
		{errors.New("boom"), "AI_ANALYSIS_FAILED"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, controller.ErrorCode(tt.err), tt.err.Error())
	}
}

func TestAnalysis_StaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	a := funcAnalyzer(func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		if len(log) == 1 {
			<-release
		}
		r := mock.Result(log)
		r.AnalysisSummary = "run over " + log[len(log)-1].ShotType
		return &r, nil
	})
	c := newController(&memStore{}, a)
	defer c.Shutdown()
	ctx := context.Background()

	_, err := c.Record(ctx, validForm())
	require.NoError(t, err)

	second := validForm()
	second.ShotType = models.ShotSingle
	_, err = c.Record(ctx, second)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return c.State().Status == models.AnalysisStatusSucceeded
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	c.Wait()

	state := c.State()
	require.NotNil(t, state.Result)
	assert.Equal(t, "run over Single", state.Result.AnalysisSummary)
	assert.Equal(t, uint64(2), state.Token)
}

func TestAnalysis_BusyWhileRunning(t *testing.T) {
	release := make(chan struct{})
	a := funcAnalyzer(func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		<-release
		r := mock.Result(log)
		return &r, nil
	})
	c := newController(&memStore{}, a)
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)

	state := c.State()
	assert.True(t, state.Busy)
	assert.Equal(t, models.AnalysisStatusRunning, state.Status)

	close(release)
	c.Wait()
	assert.False(t, c.State().Busy)
}

func TestAnalyze_EmptyLogDispatchesNothing(t *testing.T) {
	called := false
	a := funcAnalyzer(func(context.Context, []models.Experiment) (*models.AnalysisResult, error) {
		called = true
		return nil, nil
	})
	c := newController(&memStore{}, a)
	defer c.Shutdown()

	assert.False(t, c.Analyze())
	c.Wait()
	assert.False(t, called)
	assert.Equal(t, models.AnalysisStatusIdle, c.State().Status)
}

func TestShutdown_CancelsInFlightAnalysis(t *testing.T) {
	a := funcAnalyzer(func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := newController(&memStore{}, a)

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)

	c.Shutdown()
	assert.Equal(t, models.AnalysisStatusFailed, c.State().Status)
}

// --- Load ---

func TestLoad_DispatchesForExistingLog(t *testing.T) {
	st := &memStore{log: []models.Experiment{brew.Record(validForm(), time.Now())}}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	c.Load(context.Background())
	c.Wait()

	assert.Len(t, c.Log(), 1)
	assert.Equal(t, models.AnalysisStatusSucceeded, c.State().Status)
}

func TestLoad_CorruptLogStartsEmpty(t *testing.T) {
	st := &memStore{loadErr: store.ErrCorruptLog}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	c.Load(context.Background())
	c.Wait()

	assert.Empty(t, c.Log())
	assert.Equal(t, models.AnalysisStatusIdle, c.State().Status)
}

// --- Select ---

func TestSelect_DerivesDisplayedSuggestion(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	got, err := c.Select(models.Selection{
		ShotType: models.ShotSingle, FilterType: models.FilterDualWall, CoffeeType: models.CoffeePreGround,
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ShotSingle, got.ShotType)
	assert.Equal(t, models.FilterDualWall, got.FilterType)
	assert.Equal(t, models.PreGroundGrind, got.GrindSetting)

	state := c.State()
	assert.Equal(t, got, state.Displayed)
	assert.Equal(t, models.AnalysisStatusSucceeded, state.Status)
}

func TestSelect_NoMatch(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	got, err := c.Select(models.Selection{ShotType: "Triple", FilterType: models.FilterDualWall, CoffeeType: models.CoffeeBean})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, c.State().Displayed)
}

func TestSelect_RequiresAllThree(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	_, err := c.Select(models.Selection{ShotType: models.ShotSingle})
	assert.ErrorIs(t, err, controller.ErrInvalidSelection)
}

// --- Reset ---

func TestReset_UnconfirmedIsNoop(t *testing.T) {
	st := &memStore{}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	assert.False(t, c.Reset(context.Background(), false))
	assert.Len(t, c.Log(), 1)
	assert.False(t, st.cleared)
}

func TestReset_ConfirmedClearsEverything(t *testing.T) {
	st := &memStore{}
	c := newController(st, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	form.TempUnit = models.UnitFahrenheit
	form.WaterTemp = "199.4"
	_, err := c.UpdateForm(form)
	require.NoError(t, err)
	_, err = c.Record(context.Background(), form)
	require.NoError(t, err)
	c.Wait()

	assert.True(t, c.Reset(context.Background(), true))

	assert.Empty(t, c.Log())
	assert.True(t, st.cleared)
	assert.Empty(t, st.snapshot())

	state := c.State()
	assert.Nil(t, state.Result)
	assert.Nil(t, state.Selection)
	assert.Nil(t, state.Displayed)
	assert.Empty(t, state.Error)
	assert.Equal(t, brew.DefaultForm(), c.Form().Form)
}

func TestReset_InvalidatesInFlightAnalysis(t *testing.T) {
	release := make(chan struct{})
	a := funcAnalyzer(func(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error) {
		<-release
		r := mock.Result(log)
		return &r, nil
	})
	c := newController(&memStore{}, a)
	defer c.Shutdown()

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	require.True(t, c.Reset(context.Background(), true))

	close(release)
	c.Wait()

	state := c.State()
	assert.Nil(t, state.Result)
	assert.Equal(t, models.AnalysisStatusIdle, state.Status)
}

// --- form ---

func TestUpdateForm_UnitSwitchConvertsDraft(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	view, err := c.UpdateForm(form)
	require.NoError(t, err)
	assert.Equal(t, "93", view.Form.WaterTemp)

	form.TempUnit = models.UnitFahrenheit
	view, err = c.UpdateForm(form)
	require.NoError(t, err)
	assert.Equal(t, models.UnitFahrenheit, view.Form.TempUnit)
	assert.Equal(t, "199.4", view.Form.WaterTemp)
}

func TestUpdateForm_RejectsUnknownUnit(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	form.TempUnit = "K"
	_, err := c.UpdateForm(form)
	assert.ErrorIs(t, err, brew.ErrInvalidField)
}

func TestForm_WarningAndRange(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	form := validForm()
	form.IsPreGround = true
	view, err := c.UpdateForm(form)
	require.NoError(t, err)

	assert.Equal(t, brew.PreGroundSingleWallWarning, view.Warning)
	assert.Equal(t, models.PreGroundGrind, view.Form.GrindSetting)
	require.NotNil(t, view.Range)
	assert.Equal(t, 14.0, view.Range.DoseMin)
}

func TestGear_HighlightsAnalysisFactors(t *testing.T) {
	c := newController(&memStore{}, mockAnalyzer())
	defer c.Shutdown()

	for _, g := range c.Gear() {
		assert.False(t, g.Highlighted, g.ID)
	}

	_, err := c.Record(context.Background(), validForm())
	require.NoError(t, err)
	c.Wait()

	highlighted := 0
	for _, g := range c.Gear() {
		if g.Highlighted {
			highlighted++
		}
	}
	assert.Positive(t, highlighted)
}

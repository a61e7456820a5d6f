// Package controller owns the application state of a brew session: the
// experiment log, the draft form, and the most recent analysis outcome.
//
// Analyses run on background goroutines. Each dispatch is stamped with a
// token and a finished run is applied only while its token is still the
// latest, so a slow reply can never overwrite a newer one.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kiranshivaraju/brewlog/internal/ai"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/internal/store"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const (
	unexpectedResponseMessage = "AI response structure was unexpected or content was missing."
	failedAnalysisPrefix      = "Failed to get AI suggestions: "
)

var ErrInvalidSelection = errors.New("invalid selection")

// LogStore persists the experiment log.
type LogStore interface {
	Load(ctx context.Context) ([]models.Experiment, error)
	Save(ctx context.Context, log []models.Experiment) error
	Clear(ctx context.Context) error
}

// Analyzer runs one analysis over the log. A nil result with a nil error
// means there was nothing to analyze.
type Analyzer interface {
	Analyze(ctx context.Context, log []models.Experiment) (*models.AnalysisResult, error)
}

// Options tune a Controller. Zero values pick defaults.
type Options struct {
	WriteTimeout time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// Controller is safe for concurrent use.
type Controller struct {
	store    LogStore
	analyzer Analyzer

	writeTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	log       []models.Experiment
	form      models.FormState
	result    *models.AnalysisResult
	selection *models.Selection
	displayed *models.Suggestion
	status    string
	errMsg    string
	errCode   string
	token     uint64
}

// New creates a Controller with an empty log and a default form.
func New(s LogStore, a Analyzer, opts Options) *Controller {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		store:        s,
		analyzer:     a,
		writeTimeout: opts.WriteTimeout,
		now:          opts.Now,
		logger:       opts.Logger,
		baseCtx:      ctx,
		cancel:       cancel,
		log:          []models.Experiment{},
		form:         brew.DefaultForm(),
		status:       models.AnalysisStatusIdle,
	}
}

// Load reads the persisted log. Storage failures are logged and leave the
// log empty. A non-empty log triggers an analysis.
func (c *Controller) Load(ctx context.Context) {
	log, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorruptLog) {
			c.logger.Warn("discarding malformed experiment log", "error", err)
		} else {
			c.logger.Error("failed to load experiments", "error", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = log
	if c.log == nil {
		c.log = []models.Experiment{}
	}
	c.logger.Info("experiment log loaded", "experiments", len(c.log))
	if len(c.log) > 0 {
		c.dispatchLocked()
	}
}

// Record validates and appends a new experiment, persists the log and
// dispatches an analysis over it.
func (c *Controller) Record(ctx context.Context, form models.FormState) (models.Experiment, error) {
	if err := brew.ValidateForm(form); err != nil {
		return models.Experiment{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	exp := brew.Record(form, c.now())
	if n := len(c.log); n > 0 && exp.ID <= c.log[n-1].ID {
		exp.ID = c.log[n-1].ID + 1
	}

	next := make([]models.Experiment, len(c.log), len(c.log)+1)
	copy(next, c.log)
	c.log = append(next, exp)

	c.persistLocked(ctx)
	c.dispatchLocked()
	return exp, nil
}

// Analyze re-runs analysis over the current log. It reports whether a run
// was dispatched; an empty log dispatches nothing.
func (c *Controller) Analyze() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.log) == 0 {
		return false
	}
	c.dispatchLocked()
	return true
}

// Select stores the dropdown values and re-derives the displayed
// suggestion from the current matrix.
func (c *Controller) Select(sel models.Selection) (*models.Suggestion, error) {
	if sel.ShotType == "" || sel.FilterType == "" || sel.CoffeeType == "" {
		return nil, fmt.Errorf("%w: shotType, filterType and coffeeType are required", ErrInvalidSelection)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.selection = &sel
	c.displayed = nil
	if c.result != nil {
		if e, ok := brew.Select(c.result.FullBrewMatrix, sel.ShotType, sel.FilterType, sel.CoffeeType); ok {
			s := e.Suggestion
			c.displayed = &s
		}
	}
	return copySuggestion(c.displayed), nil
}

// Reset wipes the log and all derived state. Without confirmation it is a
// no-op returning false.
func (c *Controller) Reset(ctx context.Context, confirmed bool) bool {
	if !confirmed {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.log = []models.Experiment{}
	c.result = nil
	c.selection = nil
	c.displayed = nil
	c.errMsg, c.errCode = "", ""
	c.status = models.AnalysisStatusIdle
	c.form = brew.DefaultForm()

	wctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	if err := c.store.Clear(wctx); err != nil {
		c.logger.Error("failed to clear experiments", "error", err)
	}
	c.logger.Info("experiment log reset")
	return true
}

// DismissError clears the visible analysis error.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg, c.errCode = "", ""
}

// UpdateForm replaces the draft. A unit change converts the draft
// temperature from the previous unit.
func (c *Controller) UpdateForm(form models.FormState) (models.FormView, error) {
	if form.TempUnit == "" {
		form.TempUnit = models.UnitCelsius
	}
	if !brew.ValidUnit(form.TempUnit) {
		return models.FormView{}, fmt.Errorf("%w: tempUnit must be C or F, got %q", brew.ErrInvalidField, form.TempUnit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if form.TempUnit != c.form.TempUnit {
		unit := form.TempUnit
		form.TempUnit = c.form.TempUnit
		form = brew.SwitchUnit(form, unit)
	}
	if form.IsPreGround {
		form.GrindSetting = models.PreGroundGrind
	}
	c.form = form
	return brew.View(c.form), nil
}

// Form returns the draft with its range hint and warning.
func (c *Controller) Form() models.FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return brew.View(c.form)
}

// Log returns a copy of the experiment log in insertion order.
func (c *Controller) Log() []models.Experiment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Experiment, len(c.log))
	copy(out, c.log)
	return out
}

// State returns a snapshot of the analysis pipeline.
func (c *Controller) State() models.AnalysisState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := models.AnalysisState{
		Status:    c.status,
		Busy:      c.status == models.AnalysisStatusRunning,
		Error:     c.errMsg,
		ErrorCode: c.errCode,
		Displayed: copySuggestion(c.displayed),
		Token:     c.token,
	}
	if c.result != nil {
		r := *c.result
		st.Result = &r
	}
	if c.selection != nil {
		s := *c.selection
		st.Selection = &s
	}
	return st
}

// Gear returns the recommended equipment for the current analysis and form.
func (c *Controller) Gear() []models.GearItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	var factors []string
	if c.result != nil {
		factors = c.result.SignificantFactors
	}
	return brew.RecommendedGear(factors, c.form.IsPreGround)
}

// Wait blocks until every dispatched analysis has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Shutdown cancels in-flight analyses and waits for them to return.
func (c *Controller) Shutdown() {
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) persistLocked(ctx context.Context) {
	wctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	if err := c.store.Save(wctx, c.log); err != nil {
		c.logger.Error("failed to save experiments", "error", err, "experiments", len(c.log))
	}
}

// dispatchLocked must be called with mu held.
func (c *Controller) dispatchLocked() {
	c.token++
	token := c.token
	snapshot := make([]models.Experiment, len(c.log))
	copy(snapshot, c.log)

	c.status = models.AnalysisStatusRunning
	c.errMsg, c.errCode = "", ""

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.analyzer.Analyze(c.baseCtx, snapshot)
		c.apply(token, res, err)
	}()
}

func (c *Controller) apply(token uint64, res *models.AnalysisResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		c.logger.Info("discarding stale analysis", "token", token, "latest", c.token)
		return
	}

	if err != nil {
		c.logger.Error("analysis failed", "error", err, "token", token)
		c.result = nil
		c.selection = nil
		c.displayed = nil
		c.status = models.AnalysisStatusFailed
		c.errMsg = errorMessage(err)
		c.errCode = ErrorCode(err)
		return
	}

	if res == nil {
		c.status = models.AnalysisStatusIdle
		return
	}

	primary := res.NextBrewSuggestions
	sel := brew.PrimarySelection(primary)
	c.result = res
	c.selection = &sel
	c.displayed = &primary
	c.form = brew.Prefill(c.form, primary)
	c.status = models.AnalysisStatusSucceeded
	c.errMsg, c.errCode = "", ""
	c.logger.Info("analysis applied", "token", token,
		"factors", len(res.SignificantFactors), "matrix_entries", len(res.FullBrewMatrix))
}

// ErrorCode classifies an analysis failure for API clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ai.ErrProviderUnavailable):
		return "AI_PROVIDER_UNAVAILABLE"
	case errors.Is(err, ai.ErrInferenceTimeout):
		return "AI_INFERENCE_TIMEOUT"
	case errors.Is(err, ai.ErrInvalidResponse):
		return "AI_INVALID_RESPONSE"
	default:
		return "AI_ANALYSIS_FAILED"
	}
}

func errorMessage(err error) string {
	if errors.Is(err, ai.ErrInvalidResponse) {
		return unexpectedResponseMessage
	}
	return failedAnalysisPrefix + err.Error()
}

func copySuggestion(s *models.Suggestion) *models.Suggestion {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// Package client is a typed HTTP client for the brewlog JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/brewlog/internal/analysis"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// Sentinel errors for API client failures.
var (
	ErrServerUnreachable = errors.New("brewlog server unreachable")
	ErrServerTimeout     = errors.New("brewlog server timeout")
	ErrRequestFailed     = errors.New("brewlog request failed")
)

// APIError is a non-2xx reply carrying the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

func (e *APIError) Unwrap() error { return ErrRequestFailed }

// RangeDisplay holds the range already formatted by the server.
type RangeDisplay struct {
	Dose  string `json:"dose"`
	Yield string `json:"yield"`
	Time  string `json:"time"`
	Temp  string `json:"temp"`
	Puck  string `json:"puck"`
}

// RangeInfo is the reply of GET /ranges.
type RangeInfo struct {
	Defined bool                   `json:"defined"`
	Message string                 `json:"message"`
	Range   *models.ParameterRange `json:"range"`
	Display *RangeDisplay          `json:"display"`
}

// Page is one page of the experiment log.
type Page struct {
	Experiments []models.Experiment `json:"-"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	Total       int                 `json:"total"`
	HasNext     bool                `json:"has_next"`
}

// Summary is the reply of GET /experiments/summary.
type Summary struct {
	Total       int              `json:"total"`
	Fingerprint string           `json:"fingerprint"`
	Groups      []analysis.Group `json:"groups"`
}

// SelectionResult is the reply of PUT /analysis/selection.
type SelectionResult struct {
	Selection models.Selection   `json:"selection"`
	Displayed *models.Suggestion `json:"displayed"`
}

// Health is the reply of GET /health.
type Health struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HTTPClient talks to one brewlog server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8080.
func New(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, nil, &h)
	return h, err
}

func (c *HTTPClient) Ranges(ctx context.Context, shotType, filterType, unit string) (RangeInfo, error) {
	params := url.Values{
		"shot_type":   {shotType},
		"filter_type": {filterType},
	}
	if unit != "" {
		params.Set("unit", unit)
	}
	var info RangeInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/ranges", params, nil, &info)
	return info, err
}

func (c *HTTPClient) Experiments(ctx context.Context, page, limit int) (Page, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var env struct {
		Data []models.Experiment `json:"data"`
		Meta Page                `json:"meta"`
	}
	if err := c.roundTrip(ctx, http.MethodGet, "/api/v1/experiments", params, nil, &env); err != nil {
		return Page{}, err
	}
	p := env.Meta
	p.Experiments = env.Data
	if p.Experiments == nil {
		p.Experiments = []models.Experiment{}
	}
	return p, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := c.do(ctx, http.MethodGet, "/api/v1/experiments/summary", nil, nil, &s)
	return s, err
}

func (c *HTTPClient) Record(ctx context.Context, form models.FormState) (models.Experiment, error) {
	var exp models.Experiment
	err := c.do(ctx, http.MethodPost, "/api/v1/experiments", nil, form, &exp)
	return exp, err
}

// Reset wipes the log on the server. It always sends the confirmation;
// asking the user is the caller's job.
func (c *HTTPClient) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/experiments", url.Values{"confirm": {"true"}}, nil, nil)
}

func (c *HTTPClient) Analysis(ctx context.Context) (models.AnalysisState, error) {
	var st models.AnalysisState
	err := c.do(ctx, http.MethodGet, "/api/v1/analysis", nil, nil, &st)
	return st, err
}

func (c *HTTPClient) RunAnalysis(ctx context.Context) (models.AnalysisState, error) {
	var st models.AnalysisState
	err := c.do(ctx, http.MethodPost, "/api/v1/analysis", nil, nil, &st)
	return st, err
}

func (c *HTTPClient) Select(ctx context.Context, sel models.Selection) (SelectionResult, error) {
	var res SelectionResult
	err := c.do(ctx, http.MethodPut, "/api/v1/analysis/selection", nil, sel, &res)
	return res, err
}

func (c *HTTPClient) DismissError(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/analysis/error", nil, nil, nil)
}

func (c *HTTPClient) Form(ctx context.Context) (models.FormView, error) {
	var v models.FormView
	err := c.do(ctx, http.MethodGet, "/api/v1/form", nil, nil, &v)
	return v, err
}

func (c *HTTPClient) UpdateForm(ctx context.Context, form models.FormState) (models.FormView, error) {
	var v models.FormView
	err := c.do(ctx, http.MethodPut, "/api/v1/form", nil, form, &v)
	return v, err
}

func (c *HTTPClient) Gear(ctx context.Context) ([]models.GearItem, error) {
	var items []models.GearItem
	err := c.do(ctx, http.MethodGet, "/api/v1/gear", nil, nil, &items)
	return items, err
}

// do sends a request and decodes the "data" member of the reply into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.roundTrip(ctx, method, path, params, body, &env); err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrServerTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrServerTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
}

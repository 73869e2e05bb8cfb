package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the report provider client.
type ClientConfig struct {
	// BaseURL is the provider web app URL.
	BaseURL string

	// APIKey authenticates every request (the "key" parameter).
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL, apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Provider request modes.
const (
	modeReport   = "report"
	modeClasses  = "classes"
	modeStudents = "students"
	modeSave     = "save"
)

// ClassFilter narrows a report request to one class; the zero value with
// All=true means no filtering.
type ClassFilter struct {
	All         bool
	Grade       string
	ClassLetter string
}

// FilterAll requests all grades and classes.
func FilterAll() ClassFilter {
	return ClassFilter{All: true}
}

// FilterClass requests one concrete class.
func FilterClass(ref attendance.ClassRef) ClassFilter {
	return ClassFilter{Grade: ref.Grade, ClassLetter: ref.Letter}
}

func (f ClassFilter) gradeParam() string {
	if f.All {
		return attendance.AllClasses
	}
	return f.Grade
}

func (f ClassFilter) letterParam() string {
	if f.All {
		return attendance.AllClasses
	}
	return f.ClassLetter
}

// SaveRequest is the attendance save action shaped by the application layer.
type SaveRequest struct {
	Date        string
	Grade       string
	ClassLetter string
	Records     []SaveRecord
}

// SaveRecord is one student's mark in a save request.
type SaveRecord struct {
	StudentID string
	Status    attendance.StatusCode
}

// SaveResult acknowledges a completed save.
type SaveResult struct {
	Saved    int
	Replaced bool
}

// Client talks to the report provider. One outstanding request per action;
// failed fetches surface immediately with no retries, retry policy belongs
// to the caller's transport if anywhere.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
	inflight   *inflightGuard
}

// NewClient creates a new provider client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:   log.With(logger.Component("sheets")),
		inflight: newInflightGuard(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FETCH OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchReport retrieves the attendance report for a date range and class
// filter. The returned report is a fresh snapshot, never cached.
func (c *Client) FetchReport(ctx context.Context, rng shared.DateRange, filter ClassFilter) (*attendance.Report, error) {
	if err := c.inflight.acquire(modeReport); err != nil {
		return nil, err
	}
	defer c.inflight.release(modeReport)

	params := url.Values{}
	params.Set("from", rng.FromStr())
	params.Set("to", rng.ToStr())
	params.Set("grade", filter.gradeParam())
	params.Set("class_letter", filter.letterParam())

	var resp reportResponse
	if err := c.get(ctx, modeReport, params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, providerError("FetchReport", resp.Error)
	}
	return mapReport(&resp), nil
}

// FetchClasses retrieves the list of class labels.
func (c *Client) FetchClasses(ctx context.Context) ([]string, error) {
	if err := c.inflight.acquire(modeClasses); err != nil {
		return nil, err
	}
	defer c.inflight.release(modeClasses)

	var resp classesResponse
	if err := c.get(ctx, modeClasses, url.Values{}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, providerError("FetchClasses", resp.Error)
	}
	return resp.Classes, nil
}

// FetchStudents retrieves the full student roster.
func (c *Client) FetchStudents(ctx context.Context) ([]attendance.Student, error) {
	if err := c.inflight.acquire(modeStudents); err != nil {
		return nil, err
	}
	defer c.inflight.release(modeStudents)

	var resp studentsResponse
	if err := c.get(ctx, modeStudents, url.Values{}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, providerError("FetchStudents", resp.Error)
	}
	return mapStudents(resp.Students), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SAVE OPERATION
// ══════════════════════════════════════════════════════════════════════════════

// SaveAttendance submits one class's marks for one date. Duplicate
// resolution (overwrite semantics) is the provider's responsibility; the
// client only ships the shaped request.
func (c *Client) SaveAttendance(ctx context.Context, req SaveRequest) (SaveResult, error) {
	if err := c.inflight.acquire(modeSave); err != nil {
		return SaveResult{}, err
	}
	defer c.inflight.release(modeSave)

	body := saveRequestDTO{
		Key:         c.config.APIKey,
		Date:        req.Date,
		Grade:       req.Grade,
		ClassLetter: req.ClassLetter,
		Records:     make([]saveRecordDTO, 0, len(req.Records)),
	}
	for _, r := range req.Records {
		body.Records = append(body.Records, saveRecordDTO{
			StudentID:  r.StudentID,
			StatusCode: r.Status.String(),
		})
	}

	var resp saveResponse
	if err := c.post(ctx, body, &resp); err != nil {
		return SaveResult{}, err
	}
	if !resp.OK {
		return SaveResult{}, providerError("SaveAttendance", resp.Error)
	}

	c.logger.Info("attendance saved",
		logger.DateStr(req.Date),
		logger.ClassLabel(req.Grade+req.ClassLetter),
		logger.Int("saved", resp.Saved),
		logger.Bool("replaced", resp.Replaced),
	)
	return SaveResult{Saved: resp.Saved, Replaced: resp.Replaced}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT
// ══════════════════════════════════════════════════════════════════════════════

func (c *Client) get(ctx context.Context, mode string, params url.Values, out any) error {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	params.Set("mode", mode)
	params.Set("key", c.config.APIKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, mode, out)
}

func (c *Client) post(ctx context.Context, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, modeSave, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.WrapError("provider", op, shared.ErrServiceUnavailable, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.WrapError("provider", op, shared.ErrServiceUnavailable, "read response", err)
	}

	c.logger.Debug("provider request",
		logger.Operation(op),
		logger.Int("status", resp.StatusCode),
		logger.Latency(time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return shared.WrapError("provider", op, shared.ErrExternalService,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return shared.WrapError("provider", op, shared.ErrInvalidFormat, "parse response", err)
	}
	return nil
}

// providerError maps an ok=false response onto the error taxonomy, carrying
// the provider's message or a generic fallback when it sent none.
func providerError(op, message string) error {
	if message == "" {
		message = "provider error"
	}
	return shared.WrapError("provider", op, shared.ErrExternalService, message, nil)
}

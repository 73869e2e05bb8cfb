package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/application/command"
	"github.com/alga4school/katysym/internal/application/query"
	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/internal/infrastructure/external/sheets"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	report *attendance.Report
	err    error
}

func (f *fakeProvider) FetchReport(ctx context.Context, rng shared.DateRange, filter sheets.ClassFilter) (*attendance.Report, error) {
	return f.report, f.err
}

type fakeHolidayStore struct {
	days []time.Time
}

func (f *fakeHolidayStore) List(ctx context.Context) ([]time.Time, error) { return f.days, nil }
func (f *fakeHolidayStore) Add(ctx context.Context, d time.Time) error {
	f.days = append(f.days, d)
	return nil
}
func (f *fakeHolidayStore) Remove(ctx context.Context, d time.Time) error { return nil }
func (f *fakeHolidayStore) Clear(ctx context.Context) error {
	f.days = nil
	return nil
}

func testServer(provider query.ReportProvider) *Server {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}
	breaks := calendar.Breaks2025()
	store := &fakeHolidayStore{}

	deps := Dependencies{
		GetStatisticsHandler:  query.NewGetStatisticsHandler(provider, clock, breaks, store, nil),
		ExportReportHandler:   query.NewExportReportHandler(provider, clock, nil),
		GetSchoolDaysHandler:  query.NewGetSchoolDaysHandler(clock, breaks, store),
		ManageHolidaysHandler: command.NewManageHolidaysHandler(store),
		QuarterBaseYear:       2025,
	}
	return NewServer(DefaultConfig(), deps)
}

func serverReport() *attendance.Report {
	return &attendance.Report{
		Students: []attendance.Student{
			{ID: "s1", FullName: "Айгерім Нұрлан", Grade: "5", ClassLetter: "А"},
		},
		Daily: attendance.DailyRecord{
			"2025-09-02": {"s1": {Status: attendance.StatusLate}},
		},
		Totals: attendance.Totals{
			"s1": {attendance.StatusPresent: 4, attendance.StatusLate: 5},
		},
	}
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestStatisticsEndpoint(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=quarter&quarter=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2025-09-01", data["from"])
	assert.Equal(t, "2025-10-26", data["to"])
}

func TestStatisticsInsufficientInput(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	// Day period without a date is recoverable, not a server error.
	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=day")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "period_input", resp.Error.Code)
}

func TestStatisticsBadPeriodType(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=fortnight")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsProviderFailure(t *testing.T) {
	s := testServer(&fakeProvider{err: shared.ErrProviderUnavailable})

	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=all")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	rec := doRequest(s, http.MethodGet, "/api/v1/export?period=custom&from=2025-09-01&to=2025-09-05&class=ALL")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"),
		`filename="attendance_ALL_2025-09-01_to_2025-09-05.csv"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\uFEFF"))
}

func TestExportNoData(t *testing.T) {
	s := testServer(&fakeProvider{report: &attendance.Report{}})

	rec := doRequest(s, http.MethodGet, "/api/v1/export?period=all")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchoolDaysEndpoint(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	rec := doRequest(s, http.MethodGet, "/api/v1/school-days?period=custom&from=2025-09-01&to=2025-09-05")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(5), data["school_days"])
}

func TestCustomPeriodValidation(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	// Reversed bounds.
	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=custom&from=2025-09-05&to=2025-09-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing bound.
	rec = doRequest(s, http.MethodGet, "/api/v1/statistics?period=custom&from=2025-09-01")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Unparseable date.
	rec = doRequest(s, http.MethodGet, "/api/v1/statistics?period=custom&from=01.09.2025&to=2025-09-05")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHolidayLifecycle(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/holidays", strings.NewReader(`{"date":"2025-09-10"}`))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/v1/holidays")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"2025-09-10"}, data["holidays"])

	rec = doRequest(s, http.MethodDelete, "/api/v1/holidays?all=true")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHolidayBadDate(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/holidays", strings.NewReader(`{"date":"10.09.2025"}`))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	rec := doRequest(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotConfiguredHandler(t *testing.T) {
	s := NewServer(DefaultConfig(), Dependencies{})

	rec := doRequest(s, http.MethodGet, "/api/v1/statistics?period=all")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(&fakeProvider{report: serverReport()})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/statistics", nil)
	req.Header.Set("Origin", "https://school.example")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://school.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

// Package http implements the REST API for Katysym.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/alga4school/katysym/internal/application/command"
	"github.com/alga4school/katysym/internal/application/query"
	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/period"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/logger"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Katysym API",
		"version":     "v1",
		"description": "Attendance period resolution and reporting for Alga School",
		"endpoints": map[string]string{
			"health":     "/healthz",
			"statistics": "/api/v1/statistics",
			"export":     "/api/v1/export",
			"classes":    "/api/v1/classes",
			"students":   "/api/v1/students",
			"attendance": "/api/v1/attendance",
			"holidays":   "/api/v1/holidays",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORTS PAGE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStatistics handles GET /api/v1/statistics
//
// Query parameters: period (day|week|month|quarter|year|all|custom) plus the
// type-specific inputs: date, year, month, quarter, base_year, from, to.
// class narrows to one class; "ALL" or empty covers every class.
func (s *Server) handleGetStatistics(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStatisticsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Statistics handler not configured")
		return
	}

	sel, err := s.periodSelection(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	q := query.GetStatisticsQuery{
		Period:     sel,
		ClassLabel: getQueryParam(r, "class", attendance.AllClasses),
	}

	result, err := s.deps.GetStatisticsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExport handles GET /api/v1/export
//
// Streams the CSV file directly rather than wrapping it in the JSON
// envelope; the filename goes out in Content-Disposition.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.deps.ExportReportHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Export handler not configured")
		return
	}

	sel, err := s.periodSelection(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	q := query.ExportReportQuery{
		Period:     sel,
		ClassLabel: getQueryParam(r, "class", attendance.AllClasses),
	}

	file, err := s.deps.ExportReportHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

// handleGetSchoolDays handles GET /api/v1/school-days
func (s *Server) handleGetSchoolDays(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetSchoolDaysHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "School days handler not configured")
		return
	}

	sel, err := s.periodSelection(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.GetSchoolDaysHandler.Handle(r.Context(), query.GetSchoolDaysQuery{Period: sel})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// MARKING PAGE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetClasses handles GET /api/v1/classes
func (s *Server) handleGetClasses(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetRosterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Roster handler not configured")
		return
	}

	classes, err := s.deps.GetRosterHandler.Classes(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"classes": classes})
}

// handleGetStudents handles GET /api/v1/students
func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetRosterHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Roster handler not configured")
		return
	}

	q := query.GetRosterQuery{
		ClassLabel: r.URL.Query().Get("class"),
		Search:     r.URL.Query().Get("search"),
	}

	students, err := s.deps.GetRosterHandler.Students(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

// saveAttendanceRequest is the POST /api/v1/attendance body.
type saveAttendanceRequest struct {
	Date  string            `json:"date"`
	Class string            `json:"class"`
	Marks map[string]string `json:"marks"`
}

// handleSaveAttendance handles POST /api/v1/attendance
func (s *Server) handleSaveAttendance(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveAttendanceHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Save handler not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_body", "Failed to read request body")
		return
	}

	var req saveAttendanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_json", "Request body must be valid JSON")
		return
	}

	marks := make(map[string]attendance.StatusCode, len(req.Marks))
	for id, code := range req.Marks {
		marks[id] = attendance.StatusCode(code)
	}

	cmd := command.SaveAttendanceCommand{
		Date:       req.Date,
		ClassLabel: req.Class,
		Marks:      marks,
	}

	result, err := s.deps.SaveAttendanceHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.Info("attendance saved",
		logger.DateStr(req.Date),
		logger.ClassLabel(req.Class),
		logger.Int("marks", len(req.Marks)),
		logger.String("request_id", getRequestID(r.Context())),
	)

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// HOLIDAY ADMINISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListHolidays handles GET /api/v1/holidays
func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageHolidaysHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Holidays handler not configured")
		return
	}

	holidays, err := s.deps.ManageHolidaysHandler.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"holidays": holidays})
}

// holidayRequest is the POST /api/v1/holidays body.
type holidayRequest struct {
	Date string `json:"date"`
}

// handleAddHoliday handles POST /api/v1/holidays
func (s *Server) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageHolidaysHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Holidays handler not configured")
		return
	}

	var req holidayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_json", "Request body must be valid JSON")
		return
	}

	if err := s.deps.ManageHolidaysHandler.Add(r.Context(), req.Date); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"date": req.Date})
}

// handleRemoveHolidays handles DELETE /api/v1/holidays
//
// ?date=YYYY-MM-DD removes one holiday; ?all=true clears the whole set.
func (s *Server) handleRemoveHolidays(w http.ResponseWriter, r *http.Request) {
	if s.deps.ManageHolidaysHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Holidays handler not configured")
		return
	}

	if r.URL.Query().Get("all") == "true" {
		if err := s.deps.ManageHolidaysHandler.Clear(r.Context()); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"cleared": "all"})
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_date", "Provide ?date=YYYY-MM-DD or ?all=true")
		return
	}

	if err := s.deps.ManageHolidaysHandler.Remove(r.Context(), date); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"removed": date})
}

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD SELECTION PARSING
// ══════════════════════════════════════════════════════════════════════════════

// periodSelection parses the selection and fills in the configured default
// quarter base year when the request names a quarter but no year.
func (s *Server) periodSelection(r *http.Request) (period.Selection, error) {
	sel, err := parsePeriodSelection(r)
	if err != nil {
		return period.Selection{}, err
	}
	if sel.Quarter != 0 && sel.QuarterBaseYear == 0 {
		sel.QuarterBaseYear = s.deps.QuarterBaseYear
	}
	return sel, nil
}

// parsePeriodSelection builds a period selection from query parameters.
// Missing type-specific inputs stay zero; the resolver decides whether the
// selection is sufficient.
func parsePeriodSelection(r *http.Request) (period.Selection, error) {
	sel := period.Selection{
		Type: period.Type(getQueryParam(r, "period", string(period.TypeDay))),
	}
	if !sel.Type.IsValid() {
		return period.Selection{}, shared.WrapError("period", "Parse", shared.ErrInvalidInput,
			"unknown period type "+string(sel.Type), nil)
	}

	if v := r.URL.Query().Get("date"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			return period.Selection{}, shared.WrapError("period", "Parse", shared.ErrInvalidFormat, "bad date", err)
		}
		sel.Date = d
	}

	sel.Year = getQueryParamInt(r, "year", 0)
	sel.Month = getQueryParamInt(r, "month", 0)
	sel.Quarter = getQueryParamInt(r, "quarter", 0)
	sel.QuarterBaseYear = getQueryParamInt(r, "base_year", 0)

	if v := r.URL.Query().Get("from"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			return period.Selection{}, shared.WrapError("period", "Parse", shared.ErrInvalidFormat, "bad from date", err)
		}
		sel.Start = d
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := timeutil.ParseDate(v)
		if err != nil {
			return period.Selection{}, shared.WrapError("period", "Parse", shared.ErrInvalidFormat, "bad to date", err)
		}
		sel.End = d
	}

	if sel.Type == period.TypeCustom {
		if sel.Start.IsZero() || sel.End.IsZero() {
			return period.Selection{}, shared.ErrPeriodInput
		}
		if sel.End.Before(sel.Start) {
			return period.Selection{}, shared.ErrBadDateRange
		}
	}

	return sel, nil
}

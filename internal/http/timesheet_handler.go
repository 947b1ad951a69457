package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/timesheet"
)

type timesheetService interface {
	CreateEntry(ctx context.Context, params application.CreateEntryParams) (application.TimeEntry, error)
	UpdateEntry(ctx context.Context, params application.UpdateEntryParams) (application.TimeEntry, error)
	DeleteEntry(ctx context.Context, principal application.Principal, entryID string) error
	ApproveEntry(ctx context.Context, principal application.Principal, entryID string) (application.TimeEntry, error)
	DenyEntry(ctx context.Context, principal application.Principal, entryID string) (application.TimeEntry, error)
	PeriodTimesheet(ctx context.Context, params application.PeriodTimesheetParams) (application.PeriodTimesheet, error)
}

type TimesheetHandler struct {
	service   timesheetService
	responder responder
	logger    *slog.Logger
}

func NewTimesheetHandler(service timesheetService, logger *slog.Logger) *TimesheetHandler {
	base := defaultLogger(logger)
	return &TimesheetHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimesheetHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TimesheetHandler", operation, attrs...)
}

// View renders the full period view for the session's employee: the resolved
// range, the day-by-day calendar, the summary, and the raw entries.
func (h *TimesheetHandler) View(w http.ResponseWriter, r *http.Request) {
	h.servePeriod(w, r, "View", r.URL.Query().Get("period"), true)
}

// List returns the entries that fall inside the requested period for the
// session's employee.
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	h.servePeriod(w, r, "List", r.URL.Query().Get("period"), false)
}

// Period returns entries plus range metadata for the selector in the path.
func (h *TimesheetHandler) Period(w http.ResponseWriter, r *http.Request, selector string) {
	h.servePeriod(w, r, "Period", selector, false)
}

func (h *TimesheetHandler) servePeriod(w http.ResponseWriter, r *http.Request, operation, selector string, includeCalendar bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), operation, "principal_id", principal.EmployeeID, "period", selector)

	view, err := h.service.PeriodTimesheet(r.Context(), application.PeriodTimesheetParams{
		Principal: principal,
		Period:    timesheet.Period(strings.TrimSpace(selector)),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "period view assembly failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPeriodDTO(view, includeCalendar))
}

func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.EmployeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fieldErrors := req.toInput()
	if len(fieldErrors) > 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: statusMessage(http.StatusUnprocessableEntity),
			Errors:  fieldErrors,
		})
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.EmployeeID)

	entry, err := h.service.CreateEntry(r.Context(), application.CreateEntryParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("entry_id", entry.ID).InfoContext(r.Context(), "entry created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, entryResponse{Entry: toEntryDTO(entry)})
}

func (h *TimesheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing entry id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.EmployeeID, "entry_id", entryID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fieldErrors := req.toInput()
	if len(fieldErrors) > 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: statusMessage(http.StatusUnprocessableEntity),
			Errors:  fieldErrors,
		})
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.EmployeeID, "entry_id", entryID)

	entry, err := h.service.UpdateEntry(r.Context(), application.UpdateEntryParams{
		Principal: principal,
		EntryID:   entryID,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "entry update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry)})
}

func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing entry id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.EmployeeID, "entry_id", entryID)
	if err := h.service.DeleteEntry(r.Context(), principal, entryID); err != nil {
		logger.ErrorContext(r.Context(), "entry delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TimesheetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Approve", func(ctx context.Context, principal application.Principal, entryID string) (application.TimeEntry, error) {
		return h.service.ApproveEntry(ctx, principal, entryID)
	})
}

func (h *TimesheetHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "Deny", func(ctx context.Context, principal application.Principal, entryID string) (application.TimeEntry, error) {
		return h.service.DenyEntry(ctx, principal, entryID)
	})
}

func (h *TimesheetHandler) review(w http.ResponseWriter, r *http.Request, operation string, decide func(context.Context, application.Principal, string) (application.TimeEntry, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing entry id for review")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), operation, "principal_id", principal.EmployeeID, "entry_id", entryID)

	entry, err := decide(r.Context(), principal, entryID)
	if err != nil {
		logger.ErrorContext(r.Context(), "entry review failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(entry.Status)).InfoContext(r.Context(), "entry reviewed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entryResponse{Entry: toEntryDTO(entry)})
}

type entryRequest struct {
	Date         string  `json:"date"`
	Start        string  `json:"start"`
	End          *string `json:"end"`
	BreakMinutes int     `json:"break_minutes"`
	Task         string  `json:"task"`
	Project      string  `json:"project"`
}

func (req entryRequest) toInput() (application.EntryInput, map[string]string) {
	input := application.EntryInput{
		Start:        req.Start,
		End:          req.End,
		BreakMinutes: req.BreakMinutes,
		Task:         req.Task,
		Project:      req.Project,
	}

	value := strings.TrimSpace(req.Date)
	if value == "" {
		return input, map[string]string{"date": "date is required"}
	}
	date, err := time.ParseInLocation(timesheet.DateFormat, value, time.UTC)
	if err != nil {
		return input, map[string]string{"date": "must use the format YYYY-MM-DD"}
	}
	input.Date = date

	return input, nil
}

type entryDTO struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	Date         string   `json:"date"`
	Start        string   `json:"start"`
	End          *string  `json:"end,omitempty"`
	BreakMinutes int      `json:"break_minutes"`
	TotalHours   *float64 `json:"total_hours,omitempty"`
	Task         string   `json:"task,omitempty"`
	Project      string   `json:"project,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type entryResponse struct {
	Entry entryDTO `json:"entry"`
}

func toEntryDTO(entry application.TimeEntry) entryDTO {
	return entryDTO{
		ID:           entry.ID,
		EmployeeID:   entry.EmployeeID,
		Date:         entry.Date.Format(timesheet.DateFormat),
		Start:        entry.Start,
		End:          entry.End,
		BreakMinutes: entry.BreakMinutes,
		TotalHours:   entry.TotalHours,
		Task:         entry.Task,
		Project:      entry.Project,
		Status:       string(entry.Status),
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type calendarDayDTO struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	DayNumber string `json:"day_number"`
	MonthName string `json:"month_name"`
	EntryID   string `json:"entry_id,omitempty"`
}

type periodSummaryDTO struct {
	TotalHours        float64 `json:"total_hours"`
	DaysWorked        int     `json:"days_worked"`
	AvgPerCalendarDay float64 `json:"avg_per_calendar_day"`
	AvgPerWorkedDay   float64 `json:"avg_per_worked_day"`
}

type periodTimesheetResponse struct {
	Period       string            `json:"period"`
	Label        string            `json:"label"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	StartDisplay string            `json:"start_display"`
	EndDisplay   string            `json:"end_display"`
	Days         []calendarDayDTO  `json:"days,omitempty"`
	Summary      *periodSummaryDTO `json:"summary,omitempty"`
	Entries      []entryDTO        `json:"entries"`
}

func toPeriodDTO(view application.PeriodTimesheet, includeCalendar bool) periodTimesheetResponse {
	resp := periodTimesheetResponse{
		Period:       string(view.Period),
		Label:        view.Label,
		StartDate:    view.Range.Start.Format(timesheet.DateFormat),
		EndDate:      view.Range.End.Format(timesheet.DateFormat),
		StartDisplay: view.Range.Start.Format(timesheet.DisplayFormat),
		EndDisplay:   view.Range.End.Format(timesheet.DisplayFormat),
		Entries:      make([]entryDTO, 0, len(view.Entries)),
	}
	for _, entry := range view.Entries {
		resp.Entries = append(resp.Entries, toEntryDTO(entry))
	}

	if includeCalendar {
		days := make([]calendarDayDTO, 0, len(view.Calendar.Days))
		for _, day := range view.Calendar.Days {
			days = append(days, calendarDayDTO{
				Date:      day.Date.Format(timesheet.DateFormat),
				Weekday:   day.Weekday,
				DayNumber: day.DayNumber,
				MonthName: day.MonthName,
				EntryID:   day.EntryID,
			})
		}
		resp.Days = days
		resp.Summary = &periodSummaryDTO{
			TotalHours:        view.Calendar.TotalHours,
			DaysWorked:        view.Calendar.DaysWorked,
			AvgPerCalendarDay: view.Calendar.AvgPerCalendarDay,
			AvgPerWorkedDay:   view.Calendar.AvgPerWorkedDay,
		}
	}

	return resp
}

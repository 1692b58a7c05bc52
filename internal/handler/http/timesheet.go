package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// Calculate implements TimesheetHandler.
func (h *timesheetHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req timesheet.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.timesheetService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheets calculated", result)
}

// List implements TimesheetHandler.
func (h *timesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseTimesheetFilter(w, r)
	if !ok {
		return
	}

	result, err := h.timesheetService.ListTimesheets(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Timesheets, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Weekly implements TimesheetHandler.
func (h *timesheetHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseTimesheetFilter(w, r)
	if !ok {
		return
	}

	result, err := h.timesheetService.WeeklySummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Adjust implements TimesheetHandler.
func (h *timesheetHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Timesheet ID is required", nil)
		return
	}

	var req timesheet.AdjustTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.timesheetService.AdjustDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet day adjusted", result)
}

func parseTimesheetFilter(w http.ResponseWriter, r *http.Request) (timesheet.TimesheetFilter, bool) {
	q := r.URL.Query()

	filter := timesheet.TimesheetFilter{
		FromDate: q.Get("from_date"),
		ToDate:   q.Get("to_date"),
	}
	if code := q.Get("employee_code"); code != "" {
		filter.EmployeeCode = &code
	}

	if page := q.Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil {
			response.BadRequest(w, "page must be a number", nil)
			return filter, false
		}
		filter.Page = p
	}
	if limit := q.Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return filter, false
		}
		filter.Limit = l
	}

	return filter, true
}

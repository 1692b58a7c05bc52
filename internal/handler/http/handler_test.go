package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKE SERVICES =====

type fakeTimesheetService struct {
	calculateReq timesheet.CalculateRequest
	listFilter   timesheet.TimesheetFilter
	adjustReq    timesheet.AdjustTimesheetRequest
	err          error
}

func (f *fakeTimesheetService) Reconcile(ctx context.Context, req timesheet.ReconcileRequest) (timesheet.ReconcileResult, error) {
	return timesheet.ReconcileResult{}, f.err
}

func (f *fakeTimesheetService) CalculateDay(ctx context.Context, employeeID string, workDate time.Time, force bool) (timesheet.DayResult, error) {
	return timesheet.DayResult{}, f.err
}

func (f *fakeTimesheetService) Calculate(ctx context.Context, req timesheet.CalculateRequest) (timesheet.CalculateResponse, error) {
	f.calculateReq = req
	if err := req.Validate(); err != nil {
		return timesheet.CalculateResponse{}, err
	}
	if f.err != nil {
		return timesheet.CalculateResponse{}, f.err
	}
	return timesheet.CalculateResponse{RunID: "run-1", DaysCalculated: 3, DaysFailed: 1}, nil
}

func (f *fakeTimesheetService) ListTimesheets(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	f.listFilter = filter
	if f.err != nil {
		return timesheet.ListTimesheetResponse{}, f.err
	}
	return timesheet.ListTimesheetResponse{
		TotalCount: 3,
		Page:       2,
		Limit:      1,
		TotalPages: 3,
		Timesheets: []timesheet.TimesheetResponse{{ID: "ts-2", WorkDate: "2024-01-02"}},
	}, nil
}

func (f *fakeTimesheetService) WeeklySummary(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.WeeklySummaryResponse, error) {
	f.listFilter = filter
	return []timesheet.WeeklySummaryResponse{{EmployeeID: "emp-1", WeekStart: "2024-01-01", Days: 5}}, f.err
}

func (f *fakeTimesheetService) AdjustDay(ctx context.Context, req timesheet.AdjustTimesheetRequest) (timesheet.TimesheetResponse, error) {
	f.adjustReq = req
	if f.err != nil {
		return timesheet.TimesheetResponse{}, f.err
	}
	mode := "adjusted"
	return timesheet.TimesheetResponse{ID: req.ID, OTEntryMode: &mode}, nil
}

type fakePayConfigService struct {
	upsertReq payconfig.UpsertPayConfigRequest
	err       error
}

func (f *fakePayConfigService) GetPayConfig(ctx context.Context, employeeCode string) (payconfig.PayConfigResponse, error) {
	if f.err != nil {
		return payconfig.PayConfigResponse{}, f.err
	}
	return payconfig.PayConfigResponse{EmployeeCode: employeeCode}, nil
}

func (f *fakePayConfigService) UpsertPayConfig(ctx context.Context, req payconfig.UpsertPayConfigRequest) (payconfig.PayConfigResponse, error) {
	f.upsertReq = req
	if f.err != nil {
		return payconfig.PayConfigResponse{}, f.err
	}
	return payconfig.PayConfigResponse{EmployeeCode: req.EmployeeCode}, nil
}

func (f *fakePayConfigService) ValidatePayConfig(ctx context.Context, employeeCode string) (payconfig.ValidationResult, error) {
	return payconfig.ValidationResult{Valid: false, Errors: []string{"weekend_days must not be empty"}}, f.err
}

// ===== HELPERS =====

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	timesheets *fakeTimesheetService
	configs    *fakePayConfigService
}

func newTestServer() *testServer {
	s := &testServer{
		jwt:        jwt.NewJWTService("handler-secret", time.Minute),
		timesheets: &fakeTimesheetService{},
		configs:    &fakePayConfigService{},
	}
	s.router = NewRouter(s.jwt, NewTimesheetHandler(s.timesheets), NewPayConfigHandler(s.configs), RouterOptions{
		Env:            "test",
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"http://localhost:3000"},
		CalculateRate:  100,
		CalculateBurst: 100,
	})
	return s
}

func (s *testServer) token(t *testing.T, admin bool) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-1", admin)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// ===== TIMESHEETS =====

func TestCalculate(t *testing.T) {
	s := newTestServer()

	rec, resp := s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", s.token(t, false), map[string]any{
		"employee_code":     "EMP001",
		"from_date":         "2024-01-01",
		"to_date":           "2024-01-03",
		"force_recalculate": true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(3), data["days_calculated"])
	assert.Equal(t, float64(1), data["days_failed"])

	require.NotNil(t, s.timesheets.calculateReq.EmployeeCode)
	assert.Equal(t, "EMP001", *s.timesheets.calculateReq.EmployeeCode)
	require.NotNil(t, s.timesheets.calculateReq.ForceRecalculate)
	assert.True(t, *s.timesheets.calculateReq.ForceRecalculate)
}

func TestCalculate_Errors(t *testing.T) {
	s := newTestServer()
	token := s.token(t, false)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", token, map[string]any{"from_date": "2024-01-01"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Error.Details, "to_date")

	s.timesheets.err = timesheet.ErrDateRangeTooLarge
	rec, _ = s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", token, map[string]any{"from_date": "2024-01-01", "to_date": "2024-01-02"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheets/calculate", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	raw := httptest.NewRecorder()
	s.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestCalculate_RequiresToken(t *testing.T) {
	s := newTestServer()

	rec, resp := s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestCalculate_RateLimited(t *testing.T) {
	s := newTestServer()
	s.router = NewRouter(s.jwt, NewTimesheetHandler(s.timesheets), NewPayConfigHandler(s.configs), RouterOptions{
		LogLevel:       slog.LevelError,
		CalculateRate:  0.001,
		CalculateBurst: 1,
	})
	token := s.token(t, false)
	body := map[string]any{"from_date": "2024-01-01", "to_date": "2024-01-01"}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", token, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/timesheets/calculate", token, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
}

func TestListTimesheets(t *testing.T) {
	s := newTestServer()

	rec, resp := s.do(t, http.MethodGet, "/api/v1/timesheets?employee_code=EMP001&from_date=2024-01-01&to_date=2024-01-03&page=2&limit=1", s.token(t, false), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, int64(3), resp.Meta.TotalItems)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Len(t, resp.Data.([]any), 1)

	f := s.timesheets.listFilter
	assert.Equal(t, "2024-01-01", f.FromDate)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 1, f.Limit)
	require.NotNil(t, f.EmployeeCode)
	assert.Equal(t, "EMP001", *f.EmployeeCode)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/timesheets?from_date=2024-01-01&to_date=2024-01-03&page=x", s.token(t, false), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeeklySummary(t *testing.T) {
	s := newTestServer()

	rec, resp := s.do(t, http.MethodGet, "/api/v1/timesheets/weekly?from_date=2024-01-01&to_date=2024-01-14", s.token(t, false), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	weeks := resp.Data.([]any)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2024-01-01", weeks[0].(map[string]any)["week_start"])
	assert.Nil(t, s.timesheets.listFilter.EmployeeCode)
}

func TestAdjust(t *testing.T) {
	s := newTestServer()
	minutes := 420

	rec, _ := s.do(t, http.MethodPut, "/api/v1/timesheets/ts-1/adjust", s.token(t, false), map[string]any{"regular_minutes": minutes})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := s.do(t, http.MethodPut, "/api/v1/timesheets/ts-1/adjust", s.token(t, true), map[string]any{"regular_minutes": minutes})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adjusted", resp.Data.(map[string]any)["ot_entry_mode"])
	assert.Equal(t, "ts-1", s.timesheets.adjustReq.ID)
	require.NotNil(t, s.timesheets.adjustReq.RegularMinutes)
	assert.Equal(t, minutes, *s.timesheets.adjustReq.RegularMinutes)

	s.timesheets.err = timesheet.ErrTimesheetDayNotFound
	rec, _ = s.do(t, http.MethodPut, "/api/v1/timesheets/missing/adjust", s.token(t, true), map[string]any{"regular_minutes": minutes})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ===== PAY CONFIGS =====

func TestPayConfigRoutes(t *testing.T) {
	s := newTestServer()

	rec, resp := s.do(t, http.MethodGet, "/api/v1/pay-configs/EMP001", s.token(t, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EMP001", resp.Data.(map[string]any)["employee_code"])

	rec, resp = s.do(t, http.MethodGet, "/api/v1/pay-configs/EMP001/validation", s.token(t, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp.Data.(map[string]any)["valid"])

	body := map[string]any{"pay_type": "Hourly", "regular_hourly_rate": "20.00"}
	rec, _ = s.do(t, http.MethodPut, "/api/v1/pay-configs/EMP001", s.token(t, false), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/pay-configs/EMP001", s.token(t, true), body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EMP001", s.configs.upsertReq.EmployeeCode)
	assert.Equal(t, "20", s.configs.upsertReq.RegularHourlyRate.String())
}

func TestPayConfig_NotFound(t *testing.T) {
	s := newTestServer()
	s.configs.err = payconfig.ErrPayConfigNotFound

	rec, resp := s.do(t, http.MethodGet, "/api/v1/pay-configs/EMP404", s.token(t, false), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

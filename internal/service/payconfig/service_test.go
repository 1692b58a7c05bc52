package payconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	configs map[string]payconfig.PayConfig
	upserts int
}

func (r *fakeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (payconfig.PayConfig, error) {
	cfg, ok := r.configs[employeeID]
	if !ok {
		return payconfig.PayConfig{}, payconfig.ErrPayConfigNotFound
	}
	return cfg, nil
}

func (r *fakeRepo) Upsert(ctx context.Context, cfg payconfig.PayConfig) (payconfig.PayConfig, error) {
	r.upserts++
	r.configs[cfg.EmployeeID] = cfg
	return cfg, nil
}

type fakeDirectory struct {
	invalidated int
}

func (d *fakeDirectory) Resolve(ctx context.Context, code string) (employee.Employee, error) {
	if code == "EMP001" {
		return employee.Employee{ID: "e1", EmployeeCode: code}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (d *fakeDirectory) All(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (d *fakeDirectory) Invalidate() {
	d.invalidated++
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validRequest() payconfig.UpsertPayConfigRequest {
	return payconfig.UpsertPayConfigRequest{
		EmployeeCode:        "EMP001",
		PayType:             "Hourly",
		RegularHourlyRate:   decimal.RequireFromString("20.00"),
		WeekdayOTRateType:   "multiplier",
		WeekdayOTMultiplier: decPtr("1.5"),
		WeekendOTRateType:   "fixed",
		WeekendOTFixedRate:  decPtr("40.00"),
		WeekStartDay:        "Monday",
		WeekendDays:         []string{"Saturday", "Sunday"},
		WorkdayStart:        "09:00",
		WorkdayEnd:          "17:00",
		OTStartTime:         "17:00",
	}
}

func newService() (*PayConfigServiceImpl, *fakeRepo, *fakeDirectory) {
	repo := &fakeRepo{configs: make(map[string]payconfig.PayConfig)}
	dir := &fakeDirectory{}
	return NewPayConfigService(repo, dir).(*PayConfigServiceImpl), repo, dir
}

func TestUpsertPayConfig(t *testing.T) {
	svc, repo, dir := newService()

	resp, err := svc.UpsertPayConfig(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "e1", resp.EmployeeID)
	assert.Equal(t, "EMP001", resp.EmployeeCode)
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, 1, dir.invalidated)

	got, err := svc.GetPayConfig(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Saturday", "Sunday"}, got.WeekendDays)
}

func TestUpsertPayConfig_RejectsRuleViolations(t *testing.T) {
	svc, repo, dir := newService()
	req := validRequest()
	req.WeekendOTFixedRate = nil
	req.WeekendDays = nil

	_, err := svc.UpsertPayConfig(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "weekend_ot_fixed_rate")
	assert.Contains(t, fields, "weekend_days")
	assert.Equal(t, 0, repo.upserts)
	assert.Equal(t, 0, dir.invalidated)
}

func TestUpsertPayConfig_RejectsBadShape(t *testing.T) {
	svc, repo, _ := newService()
	req := validRequest()
	req.PayType = "Weekly"
	req.OTStartTime = "5pm"
	req.WeekendDays = []string{"Caturday"}

	_, err := svc.UpsertPayConfig(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.Equal(t, 0, repo.upserts)
}

func TestUpsertPayConfig_UnknownEmployee(t *testing.T) {
	svc, _, _ := newService()
	req := validRequest()
	req.EmployeeCode = "EMP404"

	_, err := svc.UpsertPayConfig(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetPayConfig_NotFound(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.GetPayConfig(context.Background(), "EMP001")
	assert.ErrorIs(t, err, payconfig.ErrPayConfigNotFound)
}

func TestValidatePayConfig(t *testing.T) {
	svc, repo, _ := newService()
	req := validRequest()
	cfg := req.ToEntity("e1")
	cfg.RegularHourlyRate = decimal.Zero
	repo.configs["e1"] = cfg

	res, err := svc.ValidatePayConfig(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "regular_hourly_rate")
}

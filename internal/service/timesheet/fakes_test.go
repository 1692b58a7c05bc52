package timesheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/punch"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	"github.com/shopspring/decimal"
)

// ===== TRANSACTOR =====

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===== LEDGER =====

type fakeLedger struct {
	mu     sync.Mutex
	seq    int
	rows   map[string]*timesheet.TimesheetDay
	byDate map[string]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		rows:   make(map[string]*timesheet.TimesheetDay),
		byDate: make(map[string]string),
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (l *fakeLedger) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*timesheet.TimesheetDay, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byDate[dayKey(employeeID, workDate)]
	if !ok {
		return nil, nil
	}
	row := *l.rows[id]
	return &row, nil
}

func (l *fakeLedger) GetByID(ctx context.Context, id string) (timesheet.TimesheetDay, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.rows[id]
	if !ok {
		return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayNotFound
	}
	return *row, nil
}

func (l *fakeLedger) Create(ctx context.Context, day timesheet.TimesheetDay) (timesheet.TimesheetDay, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := dayKey(day.EmployeeID, day.WorkDate)
	if _, ok := l.byDate[key]; ok {
		return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayExists
	}
	l.seq++
	day.ID = fmt.Sprintf("ts-%d", l.seq)
	l.rows[day.ID] = &day
	l.byDate[key] = day.ID
	return day, nil
}

func (l *fakeLedger) Update(ctx context.Context, id string, upd timesheet.TimesheetDayUpdate) (timesheet.TimesheetDay, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.rows[id]
	if !ok {
		return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayNotFound
	}
	if upd.OTEntryMode == nil && row.IsLocked() {
		return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayLocked
	}
	if upd.Result != nil {
		row.Calculation = *upd.Result
	}
	row.IsCalculated = upd.IsCalculated
	row.CalculationError = upd.CalculationError
	if upd.CalculatedAt != nil {
		at := *upd.CalculatedAt
		row.CalculatedAt = &at
	}
	if upd.OTEntryMode != nil {
		mode := *upd.OTEntryMode
		row.OTEntryMode = &mode
	}
	if upd.AdjustmentNote != nil {
		row.AdjustmentNote = upd.AdjustmentNote
	}
	return *row, nil
}

func (l *fakeLedger) List(ctx context.Context, filter timesheet.LedgerFilter) ([]timesheet.TimesheetDay, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []timesheet.TimesheetDay
	for _, row := range l.rows {
		if filter.EmployeeID != nil && row.EmployeeID != *filter.EmployeeID {
			continue
		}
		date := row.WorkDate.Format("2006-01-02")
		if date < filter.From.Format("2006-01-02") || date > filter.To.Format("2006-01-02") {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].WorkDate.Before(out[j].WorkDate)
	})
	total := int64(len(out))
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			out = nil
		} else {
			out = out[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (l *fakeLedger) row(employeeID string, date time.Time) timesheet.TimesheetDay {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.rows[l.byDate[dayKey(employeeID, date)]]
}

// ===== PUNCHES =====

type fakePunches struct {
	records map[string][]punch.PunchRecord
	// failOn makes ListByEmployeeAndRange fail for a day ("employee|date").
	failOn map[string]bool
}

func (p *fakePunches) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]punch.PunchRecord, error) {
	if p.failOn[dayKey(employeeID, from)] {
		return nil, errors.New("punch device unreachable")
	}
	var out []punch.PunchRecord
	for _, r := range p.records[employeeID] {
		if !r.Timestamp.Before(from) && r.Timestamp.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ===== PAY CONFIGS =====

type fakePayConfigs struct {
	mu      sync.Mutex
	configs map[string]payconfig.PayConfig
	gets    int
}

func (r *fakePayConfigs) GetByEmployeeID(ctx context.Context, employeeID string) (payconfig.PayConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	cfg, ok := r.configs[employeeID]
	if !ok {
		return payconfig.PayConfig{}, payconfig.ErrPayConfigNotFound
	}
	return cfg, nil
}

func (r *fakePayConfigs) Upsert(ctx context.Context, cfg payconfig.PayConfig) (payconfig.PayConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.EmployeeID] = cfg
	return cfg, nil
}

// ===== EMPLOYEES =====

type fakeDirectory struct {
	employees []employee.Employee
}

func (d *fakeDirectory) Resolve(ctx context.Context, code string) (employee.Employee, error) {
	for _, e := range d.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (d *fakeDirectory) All(ctx context.Context) ([]employee.Employee, error) {
	return d.employees, nil
}

func (d *fakeDirectory) Invalidate() {}

// ===== CALCULATOR =====

type countingCalculator struct {
	inner *overtime.RateCalculator
	calls atomic.Int32
	// after is called after every calculation with the running call count.
	after func(n int32)
	// panicOn panics for the given date.
	panicOn string
}

func newCountingCalculator() *countingCalculator {
	return &countingCalculator{inner: overtime.NewRateCalculator()}
}

func (c *countingCalculator) Calculate(date time.Time, spans []overtime.Span, cfg payconfig.PayConfig) (overtime.BucketResult, error) {
	n := c.calls.Add(1)
	if c.panicOn == date.Format("2006-01-02") {
		panic("boom")
	}
	res, err := c.inner.Calculate(date, spans, cfg)
	if c.after != nil {
		c.after(n)
	}
	return res, err
}

// ===== CLOCK =====

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// ===== FIXTURES =====

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// validConfig: 20/hr, weekday OT x1.5, weekend OT fixed 40, Friday/Saturday weekend, week starts Sunday.
func validConfig(employeeID string) payconfig.PayConfig {
	return payconfig.PayConfig{
		EmployeeID:          employeeID,
		PayType:             payconfig.PayTypeHourly,
		RegularHourlyRate:   dec("20.00"),
		WeekdayOTRateType:   payconfig.RateTypeMultiplier,
		WeekdayOTMultiplier: decPtr("1.5"),
		WeekendOTRateType:   payconfig.RateTypeFixed,
		WeekendOTFixedRate:  decPtr("40.00"),
		WeekStartDay:        "Sunday",
		WeekendDays:         []string{"Friday", "Saturday"},
		WorkdayStart:        "09:00",
		WorkdayEnd:          "17:00",
		OTStartTime:         "17:00",
	}
}

func shift(employeeID string, in, out time.Time) []punch.PunchRecord {
	return []punch.PunchRecord{
		{ID: employeeID + in.Format(time.RFC3339), EmployeeID: employeeID, Timestamp: in, RawMode: "IN"},
		{ID: employeeID + out.Format(time.RFC3339), EmployeeID: employeeID, Timestamp: out, RawMode: "OUT"},
	}
}

type fixture struct {
	ledger     *fakeLedger
	punches    *fakePunches
	configs    *fakePayConfigs
	directory  *fakeDirectory
	calculator *countingCalculator
	clock      *fakeClock
	svc        *TimesheetServiceImpl
}

func newFixture(workers int) *fixture {
	f := &fixture{
		ledger: newFakeLedger(),
		punches: &fakePunches{
			records: make(map[string][]punch.PunchRecord),
			failOn:  make(map[string]bool),
		},
		configs:    &fakePayConfigs{configs: make(map[string]payconfig.PayConfig)},
		directory:  &fakeDirectory{},
		calculator: newCountingCalculator(),
		clock:      &fakeClock{now: at(2024, 2, 1, 0, 0)},
	}
	f.svc = NewTimesheetService(fakeTx{}, f.ledger, f.configs, f.punches, f.directory, f.calculator, Options{
		Location:     time.UTC,
		Workers:      workers,
		MaxRangeDays: 31,
		Now:          f.clock.Now,
	})
	return f
}

func (f *fixture) addEmployee(id, code string, cfg *payconfig.PayConfig) {
	f.directory.employees = append(f.directory.employees, employee.Employee{ID: id, EmployeeCode: code})
	if cfg != nil {
		f.configs.configs[id] = *cfg
	}
}

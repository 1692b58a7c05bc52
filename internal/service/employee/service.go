package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/patrickmn/go-cache"
)

const allEmployeesKey = "employees:with-pay-config"

// CachedDirectory is an employee.EmployeeDirectory backed by the repository
// with a per-instance TTL cache. Callers that change pay configurations must
// call Invalidate so All picks the change up.
type CachedDirectory struct {
	employeeRepo employee.EmployeeRepository
	store        *cache.Cache
}

func NewCachedDirectory(employeeRepo employee.EmployeeRepository, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		employeeRepo: employeeRepo,
		store:        cache.New(ttl, 2*ttl),
	}
}

func codeKey(code string) string {
	return "employee:code:" + code
}

// Resolve implements employee.EmployeeDirectory.
func (d *CachedDirectory) Resolve(ctx context.Context, employeeCode string) (employee.Employee, error) {
	if cached, found := d.store.Get(codeKey(employeeCode)); found {
		return cached.(employee.Employee), nil
	}

	emp, err := d.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return employee.Employee{}, err
	}

	d.store.SetDefault(codeKey(employeeCode), emp)
	return emp, nil
}

// All implements employee.EmployeeDirectory.
func (d *CachedDirectory) All(ctx context.Context) ([]employee.Employee, error) {
	if cached, found := d.store.Get(allEmployeesKey); found {
		return cached.([]employee.Employee), nil
	}

	employees, err := d.employeeRepo.ListWithPayConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	d.store.SetDefault(allEmployeesKey, employees)
	for _, emp := range employees {
		d.store.SetDefault(codeKey(emp.EmployeeCode), emp)
	}
	return employees, nil
}

// Invalidate implements employee.EmployeeDirectory.
func (d *CachedDirectory) Invalidate() {
	d.store.Flush()
	slog.Debug("employee directory cache flushed")
}

package timesheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
)

type configEntry struct {
	cfg payconfig.PayConfig
	err error
}

// configCache is a read-through cache of validated pay configurations. It
// lives for one batch only, so config changes are seen by the next run.
type configCache struct {
	repo payconfig.PayConfigRepository

	mu      sync.Mutex
	entries map[string]configEntry
}

func newConfigCache(repo payconfig.PayConfigRepository) *configCache {
	return &configCache{
		repo:    repo,
		entries: make(map[string]configEntry),
	}
}

// get returns the configuration of employeeID, or an error wrapping
// ErrConfigurationMissing or ErrConfigurationInvalid. Repository failures are
// not cached.
func (c *configCache) get(ctx context.Context, employeeID string) (payconfig.PayConfig, error) {
	c.mu.Lock()
	entry, ok := c.entries[employeeID]
	c.mu.Unlock()
	if ok {
		return entry.cfg, entry.err
	}

	cfg, err := loadConfig(ctx, c.repo, employeeID)
	if err != nil && !isConfigError(err) {
		return payconfig.PayConfig{}, err
	}

	c.mu.Lock()
	c.entries[employeeID] = configEntry{cfg: cfg, err: err}
	c.mu.Unlock()
	return cfg, err
}

func loadConfig(ctx context.Context, repo payconfig.PayConfigRepository, employeeID string) (payconfig.PayConfig, error) {
	cfg, err := repo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, payconfig.ErrPayConfigNotFound) {
			return payconfig.PayConfig{}, timesheet.ErrConfigurationMissing
		}
		return payconfig.PayConfig{}, fmt.Errorf("failed to get pay configuration: %w", err)
	}

	if res := overtime.Validate(cfg); !res.Valid {
		return payconfig.PayConfig{}, fmt.Errorf("%w: %s", timesheet.ErrConfigurationInvalid, strings.Join(res.Errors, "; "))
	}
	return cfg, nil
}

func isConfigError(err error) bool {
	return errors.Is(err, timesheet.ErrConfigurationMissing) || errors.Is(err, timesheet.ErrConfigurationInvalid)
}

func configErrorKind(err error) timesheet.ErrorKind {
	switch {
	case errors.Is(err, timesheet.ErrConfigurationMissing):
		return timesheet.ErrorKindConfigurationMissing
	case errors.Is(err, timesheet.ErrConfigurationInvalid):
		return timesheet.ErrorKindConfigurationInvalid
	default:
		return timesheet.ErrorKindCalculationFailure
	}
}

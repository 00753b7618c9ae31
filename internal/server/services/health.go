package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gremath/internal/logging"
)

const healthCheckTimeout = 2 * time.Second

// CheckFunc pings one backing store.
type CheckFunc func(ctx context.Context) error

type HealthService struct {
	checks map[string]CheckFunc
	logger logging.Logger
}

func NewHealthService(logger logging.Logger, checks map[string]CheckFunc) *HealthService {
	return &HealthService{checks: checks, logger: logger}
}

// Check runs every CheckFunc and reports which stores answered.
func (s *HealthService) Check(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(s.checks))
	for name, check := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := check(cctx)
		cancel()

		if err != nil {
			s.logger.Warn(ctx, "health check failed", "store", name, "error", err)
		}
		status[name] = err == nil
	}
	return status
}

package cache

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/repository"
)

// NewReportCache returns the redis cache when enabled and Noop otherwise. Redis errors are
// logged and treated as misses.
// A redis that cannot be reached degrades to Noop with a warning rather than failing startup.
func NewReportCache(cfg *config.Config, logger *logrus.Logger) (repository.ReportCache, func()) {
	if !cfg.Cache.Enabled {
		return Noop{}, func() {}
	}
	c, cleanup, err := NewRedisReportCache(context.Background(), cfg.Cache)
	if err != nil {
		logger.WithError(err).WithField("addr", cfg.Cache.Addr).Warn("report cache disabled")
		return Noop{}, func() {}
	}
	return NewLoggingReportCache(c, logger), cleanup
}

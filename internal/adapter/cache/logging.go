package cache

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/gradenet/internal/repository"
)

// LoggingReportCache logs and swallows errors from the wrapped cache, so a failing cache
// behaves like a miss and reports are read from the store.
type LoggingReportCache struct {
	next   repository.ReportCache
	logger *logrus.Logger
}

func NewLoggingReportCache(next repository.ReportCache, logger *logrus.Logger) *LoggingReportCache {
	return &LoggingReportCache{next: next, logger: logger}
}

func (c *LoggingReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	hit, err := c.next.Get(ctx, key, dst)
	if err != nil {
		c.warn(ctx, "get", key, err)
		return false, nil
	}
	return hit, nil
}

func (c *LoggingReportCache) Set(ctx context.Context, key string, value any) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.warn(ctx, "set", key, err)
	}
	return nil
}

func (c *LoggingReportCache) Invalidate(ctx context.Context) error {
	if err := c.next.Invalidate(ctx); err != nil {
		c.warn(ctx, "invalidate", "", err)
	}
	return nil
}

func (c *LoggingReportCache) warn(ctx context.Context, op, key string, err error) {
	entry := c.logger.WithContext(ctx).WithError(err).WithField("op", op)
	if key != "" {
		entry = entry.WithField("key", key)
	}
	entry.Warn("report cache failure")
}

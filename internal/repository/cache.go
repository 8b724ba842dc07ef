package repository

import "context"

// ReportCache stores computed report payloads until the underlying records change.
type ReportCache interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}

package repository

import (
	"context"

	"github.com/eslsoft/gradenet/internal/entity"
)

// SnapshotStore writes a complete record set atomically.
type SnapshotStore interface {
	// Restore upserts every record of snap in one transaction. With replace set, existing
	// semesters and courses are removed first.
	Restore(ctx context.Context, snap *entity.Snapshot, replace bool) error
}

package repository

import (
	"context"

	"github.com/eslsoft/gradenet/internal/entity"
)

// SettingsRepository stores the single settings row.
type SettingsRepository interface {
	// Get returns nil, nil when settings were never saved.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) (*entity.Settings, error)
}

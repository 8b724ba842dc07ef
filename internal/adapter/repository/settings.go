package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/infrastructure/database/types"
	"github.com/eslsoft/gradenet/internal/repository"
)

var settingsColumns = database.ColumnNames(database.SettingsTable)

type SettingsRepository struct {
	store
}

// NewSettingsRepository constructs a SQL-backed settings repository.
func NewSettingsRepository(db *database.DB) repository.SettingsRepository {
	return &SettingsRepository{store: store{db: db}}
}

func (r *SettingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	selector := r.builder().Select(settingsColumns...).
		From(r.builder().Table(database.SettingsTableName)).
		Where(entsql.EQ("id", database.SettingsRowID))

	var (
		id       int
		mapping  types.GradeMapping
		settings entity.Settings
	)
	err := r.queryRow(ctx, r.db, selector).Scan(
		&id, &settings.ScaleType, &mapping, &settings.RetakePolicy, &settings.TargetCGPA, &settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	settings.GradeMapping = mapping
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *entity.Settings) (*entity.Settings, error) {
	if err := r.upsert(ctx, r.db, database.SettingsTableName, settingsColumns, settingsValues(settings)); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func settingsValues(s *entity.Settings) []any {
	return []any{
		database.SettingsRowID,
		string(s.ScaleType),
		types.GradeMapping(s.GradeMapping),
		string(s.RetakePolicy),
		s.TargetCGPA,
		s.UpdatedAt.UTC(),
	}
}

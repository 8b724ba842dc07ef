package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/repository"
)

type SnapshotStore struct {
	store
}

// NewSnapshotStore constructs the transactional restore target used by imports.
func NewSnapshotStore(db *database.DB) repository.SnapshotStore {
	return &SnapshotStore{store: store{db: db}}
}

func (s *SnapshotStore) Restore(ctx context.Context, snap *entity.Snapshot, replace bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if replace {
			for _, table := range []string{database.CoursesTableName, database.SemestersTableName} {
				if _, err := s.exec(ctx, tx, s.builder().Delete(table)); err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
		}

		for i := range snap.Semesters {
			if err := s.upsert(ctx, tx, database.SemestersTableName, semesterColumns, semesterValues(&snap.Semesters[i])); err != nil {
				return err
			}
		}
		for _, semester := range snap.Semesters {
			courses := snap.CoursesBySemester[semester.ID]
			for i := range courses {
				if err := s.upsert(ctx, tx, database.CoursesTableName, courseColumns, courseValues(&courses[i])); err != nil {
					return translateCourseError(err, "restore course")
				}
			}
		}
		if snap.Settings != nil {
			if err := s.upsert(ctx, tx, database.SettingsTableName, settingsColumns, settingsValues(snap.Settings)); err != nil {
				return err
			}
		}
		return nil
	})
}

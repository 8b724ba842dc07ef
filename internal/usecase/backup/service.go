package backup

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/repository"
	"github.com/eslsoft/gradenet/internal/usecase"
)

const formatVersion = 1

// Record types, also used as progress section names.
const (
	TypeMeta     = "meta"
	TypeSettings = "settings"
	TypeSemester = "semester"
	TypeCourse   = "course"
)

// ProgressReporter receives per-section progress callbacks during export.
type ProgressReporter interface {
	StartTable(section string, total int)
	Increment(section string, delta int)
	FinishTable(section string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams a user's records to and from newline-delimited JSON.
type Service struct {
	semesters repository.SemesterRepository
	courses   repository.CourseRepository
	settings  repository.SettingsRepository
	store     repository.SnapshotStore
	cache     repository.ReportCache
	validator *usecase.Validator
	clock     func() time.Time
}

// NewService constructs a backup service over the record stores.
func NewService(
	semesters repository.SemesterRepository,
	courses repository.CourseRepository,
	settings repository.SettingsRepository,
	store repository.SnapshotStore,
	cache repository.ReportCache,
	validator *usecase.Validator,
) *Service {
	return &Service{
		semesters: semesters,
		courses:   courses,
		settings:  settings,
		store:     store,
		cache:     cache,
		validator: validator,
		clock:     time.Now,
	}
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	semesterIDs []string
	reporter    ProgressReporter
}

// WithSemesters restricts export to the given semesters and their courses.
func WithSemesters(ids []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(ids) == 0 {
			return
		}
		cfg.semesterIDs = append([]string{}, ids...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	replace bool
}

// WithReplace clears every existing semester and course before writing the backup.
func WithReplace(replace bool) ImportOption {
	return func(cfg *importConfig) {
		cfg.replace = replace
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Counts     map[string]int `json:"counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	ExportedAt *time.Time      `json:"exported_at"`
	Counts     map[string]int  `json:"counts"`
	Payload    json.RawMessage `json:"payload"`
}

// Export writes a meta record followed by the settings, semester and course records.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	snap, err := s.collect(ctx, cfg.semesterIDs)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	now := s.clock().UTC()
	counts := map[string]int{
		TypeSettings: lo.Ternary(snap.Settings != nil, 1, 0),
		TypeSemester: len(snap.Semesters),
		TypeCourse:   snap.CourseCount(),
	}
	if err := writeRecord(writer, record{Type: TypeMeta, Version: formatVersion, ExportedAt: &now, Counts: counts}); err != nil {
		return err
	}

	if snap.Settings != nil {
		reporter.StartTable(TypeSettings, 1)
		if err := writeRecord(writer, record{Type: TypeSettings, Payload: snap.Settings}); err != nil {
			return err
		}
		reporter.Increment(TypeSettings, 1)
		reporter.FinishTable(TypeSettings)
	}

	reporter.StartTable(TypeSemester, counts[TypeSemester])
	for _, semester := range snap.Semesters {
		if err := writeRecord(writer, record{Type: TypeSemester, Payload: semester}); err != nil {
			return err
		}
		reporter.Increment(TypeSemester, 1)
	}
	reporter.FinishTable(TypeSemester)

	reporter.StartTable(TypeCourse, counts[TypeCourse])
	for _, semester := range snap.Semesters {
		for _, course := range snap.CoursesBySemester[semester.ID] {
			if err := writeRecord(writer, record{Type: TypeCourse, Payload: course}); err != nil {
				return err
			}
			reporter.Increment(TypeCourse, 1)
		}
	}
	reporter.FinishTable(TypeCourse)

	return writer.Flush()
}

func (s *Service) collect(ctx context.Context, semesterIDs []string) (*entity.Snapshot, error) {
	semesters, err := s.semesters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	if len(semesterIDs) > 0 {
		wanted := make(map[string]struct{}, len(semesterIDs))
		for _, id := range semesterIDs {
			wanted[strings.TrimSpace(id)] = struct{}{}
		}
		for id := range wanted {
			if !lo.ContainsBy(semesters, func(s entity.Semester) bool { return s.ID == id }) {
				return nil, fmt.Errorf("backup: %w: %s", entity.ErrSemesterNotFound, id)
			}
		}
		semesters = lo.Filter(semesters, func(s entity.Semester, _ int) bool {
			_, ok := wanted[s.ID]
			return ok
		})
	}

	grouped, err := s.courses.ListGrouped(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	snap := &entity.Snapshot{
		Settings:          settings,
		Semesters:         semesters,
		CoursesBySemester: make(map[string][]entity.Course, len(semesters)),
	}
	for _, semester := range semesters {
		if courses := grouped[semester.ID]; len(courses) > 0 {
			snap.CoursesBySemester[semester.ID] = courses
		}
	}
	return snap, nil
}

// Import reads a backup, validates every record and only then writes the snapshot.
// Nothing is written when any record is rejected.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) (*entity.Snapshot, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	snap, err := s.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := s.store.Restore(ctx, snap, cfg.replace); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	// Cached reports are best-effort; a failed invalidation only delays fresh figures.
	_ = s.cache.Invalidate(ctx)
	return snap, nil
}

// Decode parses and validates a backup stream without writing anything.
func (s *Service) Decode(r io.Reader) (*entity.Snapshot, error) {
	br := bufio.NewReader(r)
	var (
		metaSeen bool
		meta     rawRecord
		lineNo   int
		snap     = &entity.Snapshot{CoursesBySemester: make(map[string][]entity.Course)}
		courses  []entity.Course
	)

	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read backup: %w", err)
		}
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, snapshotError(lineNo, "decode record: %v", err)
			}

			switch rec.Type {
			case TypeMeta:
				if metaSeen {
					return nil, snapshotError(lineNo, "duplicate meta record")
				}
				metaSeen = true
				meta = rec
			case TypeSettings:
				if snap.Settings != nil {
					return nil, snapshotError(lineNo, "duplicate settings record")
				}
				var settings entity.Settings
				if err := decodePayload(rec, &settings); err != nil {
					return nil, snapshotError(lineNo, "%v", err)
				}
				snap.Settings = &settings
			case TypeSemester:
				var semester entity.Semester
				if err := decodePayload(rec, &semester); err != nil {
					return nil, snapshotError(lineNo, "%v", err)
				}
				snap.Semesters = append(snap.Semesters, semester)
			case TypeCourse:
				var course entity.Course
				if err := decodePayload(rec, &course); err != nil {
					return nil, snapshotError(lineNo, "%v", err)
				}
				courses = append(courses, course)
			default:
				return nil, snapshotError(lineNo, "unknown record type %q", rec.Type)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return nil, fmt.Errorf("%w: backup: missing meta record", entity.ErrInvalidSnapshot)
	}
	if meta.Version != formatVersion {
		return nil, fmt.Errorf("%w: backup: unsupported format version %d", entity.ErrInvalidSnapshot, meta.Version)
	}
	for _, course := range courses {
		snap.CoursesBySemester[course.SemesterID] = append(snap.CoursesBySemester[course.SemesterID], course)
	}
	if err := checkCounts(meta.Counts, snap); err != nil {
		return nil, err
	}
	if err := s.validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func decodePayload(rec rawRecord, dst any) error {
	if len(rec.Payload) == 0 {
		return fmt.Errorf("missing payload for %s record", rec.Type)
	}
	dec := json.NewDecoder(bytes.NewReader(rec.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", rec.Type, err)
	}
	return nil
}

// checkCounts catches truncated files: every count announced by meta must match.
func checkCounts(counts map[string]int, snap *entity.Snapshot) error {
	if counts == nil {
		return nil
	}
	got := map[string]int{
		TypeSettings: lo.Ternary(snap.Settings != nil, 1, 0),
		TypeSemester: len(snap.Semesters),
		TypeCourse:   snap.CourseCount(),
	}
	for _, kind := range []string{TypeSettings, TypeSemester, TypeCourse} {
		want, ok := counts[kind]
		if ok && want != got[kind] {
			return fmt.Errorf("%w: backup: expected %d %s records, found %d", entity.ErrInvalidSnapshot, want, kind, got[kind])
		}
	}
	return nil
}

func snapshotError(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", entity.ErrInvalidSnapshot, line, fmt.Sprintf(format, args...))
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}

package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/repository"
)

var baseTime = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

// tickingClock returns a clock advancing one minute per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}

type fakeSemesterRepo struct {
	mu      sync.RWMutex
	items   map[string]entity.Semester
	courses *fakeCourseRepo
}

func newFakeSemesterRepo(courses *fakeCourseRepo) *fakeSemesterRepo {
	return &fakeSemesterRepo{items: make(map[string]entity.Semester), courses: courses}
}

func (r *fakeSemesterRepo) Create(ctx context.Context, s *entity.Semester) (*entity.Semester, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = *s
	copy := *s
	return &copy, nil
}

func (r *fakeSemesterRepo) Update(ctx context.Context, s *entity.Semester) (*entity.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return nil, entity.ErrSemesterNotFound
	}
	r.items[s.ID] = *s
	copy := *s
	return &copy, nil
}

func (r *fakeSemesterRepo) GetByID(ctx context.Context, id string) (*entity.Semester, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, entity.ErrSemesterNotFound
	}
	return &s, nil
}

func (r *fakeSemesterRepo) List(ctx context.Context) ([]entity.Semester, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Semester, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeSemesterRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return entity.ErrSemesterNotFound
	}
	delete(r.items, id)
	if r.courses != nil {
		r.courses.deleteSemester(id)
	}
	return nil
}

type fakeCourseRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{items: make(map[string]entity.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *entity.Course) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.SemesterID == c.SemesterID && existing.Code == c.Code {
			return nil, entity.ErrDuplicateCourseCode
		}
	}
	r.items[c.ID] = *c
	copy := *c
	return &copy, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *entity.Course) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return nil, entity.ErrCourseNotFound
	}
	r.items[c.ID] = *c
	copy := *c
	return &copy, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, entity.ErrCourseNotFound
	}
	return &c, nil
}

func (r *fakeCourseRepo) sorted() []entity.Course {
	out := make([]entity.Course, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeCourseRepo) ListBySemester(ctx context.Context, semesterID string) ([]entity.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Course
	for _, c := range r.sorted() {
		if c.SemesterID == semesterID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListGrouped(ctx context.Context) (map[string][]entity.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]entity.Course)
	for _, c := range r.sorted() {
		out[c.SemesterID] = append(out[c.SemesterID], c)
	}
	return out, nil
}

func (r *fakeCourseRepo) List(ctx context.Context, query *repository.ListCourseQuery) ([]entity.Course, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sorted()
	return all, int64(len(all)), nil
}

func (r *fakeCourseRepo) UpdateGrades(ctx context.Context, courses []entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range courses {
		existing, ok := r.items[c.ID]
		if !ok {
			return entity.ErrCourseNotFound
		}
		existing.GradeLetter = c.GradeLetter
		existing.GradePoint = c.GradePoint
		existing.UpdatedAt = c.UpdatedAt
		r.items[c.ID] = existing
	}
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return entity.ErrCourseNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeCourseRepo) deleteSemester(semesterID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.items {
		if c.SemesterID == semesterID {
			delete(r.items, id)
		}
	}
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.Settings
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, nil
	}
	copy := *r.settings
	return &copy, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, s *entity.Settings) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *s
	r.settings = &copy
	out := copy
	return &out, nil
}

// memoryCache is a JSON round-tripping report cache that counts hits and invalidations.
type memoryCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	hits          int
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.invalidations++
	return nil
}

// harness bundles every usecase over shared fakes.
type harness struct {
	semesterRepo *fakeSemesterRepo
	courseRepo   *fakeCourseRepo
	settingsRepo *fakeSettingsRepo
	cache        *memoryCache

	semesters SemesterUsecase
	courses   CourseUsecase
	settings  SettingsUsecase
	reports   ReportUsecase
	planner   PlannerUsecase
}

func newHarness() *harness {
	h := &harness{
		courseRepo:   newFakeCourseRepo(),
		settingsRepo: &fakeSettingsRepo{},
		cache:        newMemoryCache(),
	}
	h.semesterRepo = newFakeSemesterRepo(h.courseRepo)
	v := NewValidator()
	clock := tickingClock()

	defaults := SettingsDefaults{ScaleType: entity.ScaleFivePoint, RetakePolicy: entity.RetakeReplace, TargetCGPA: 4.0}
	settings := NewSettingsUsecase(h.settingsRepo, h.courseRepo, h.cache, v, defaults).(*settingsUsecase)
	settings.clock = clock
	h.settings = settings

	semesters := NewSemesterUsecase(h.semesterRepo, h.cache, v).(*semesterUsecase)
	semesters.clock = clock
	semesters.newID = sequentialIDs("s")
	h.semesters = semesters

	courses := NewCourseUsecase(h.courseRepo, h.semesterRepo, h.settings, h.cache).(*courseUsecase)
	courses.clock = clock
	courses.newID = sequentialIDs("c")
	h.courses = courses

	h.reports = NewReportUsecase(h.semesterRepo, h.courseRepo, h.settings, h.cache)
	h.planner = NewPlannerUsecase(h.reports, h.settings, PlanDefaults{RemainingSemesters: 2, UnitsPerSemester: 15})
	return h
}

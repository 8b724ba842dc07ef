package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/repository"
)

// SettingsDefaults seeds settings until the user saves their own.
type SettingsDefaults struct {
	ScaleType    entity.ScaleType
	RetakePolicy entity.RetakePolicy
	TargetCGPA   float64
}

// Settings returns the defaults as a complete settings value. Unknown scale or policy values
// fall back to the 5.0 scale and the replace policy.
func (d SettingsDefaults) Settings() entity.Settings {
	scaleType := d.ScaleType
	if !scaleType.Valid() {
		scaleType = entity.ScaleFivePoint
	}
	policy := d.RetakePolicy
	if !policy.Valid() {
		policy = entity.RetakeReplace
	}
	mapping, _ := gpa.CanonicalScale(scaleType)
	target := d.TargetCGPA
	if scaleMax := gpa.ScaleMax(mapping); target < 0 || target > scaleMax {
		target = min(4.0, scaleMax)
	}
	return entity.Settings{
		ScaleType:    scaleType,
		GradeMapping: mapping,
		RetakePolicy: policy,
		TargetCGPA:   target,
	}
}

// SettingsUsecase manages the grading configuration.
type SettingsUsecase interface {
	GetSettings(ctx context.Context) (*entity.Settings, error)
	UpdateSettings(ctx context.Context, patch entity.SettingsPatch) (*entity.Settings, error)
	// Recalculate regrades every stored course under the active scale and returns how many changed.
	Recalculate(ctx context.Context) (int, error)
}

// NewSettingsUsecase wires the settings store with the course store used for regrading.
func NewSettingsUsecase(repo repository.SettingsRepository, courses repository.CourseRepository, cache repository.ReportCache, validator *Validator, defaults SettingsDefaults) SettingsUsecase {
	return &settingsUsecase{
		repo:      repo,
		courses:   courses,
		cache:     cache,
		validator: validator,
		defaults:  defaults,
		clock:     time.Now,
	}
}

type settingsUsecase struct {
	repo      repository.SettingsRepository
	courses   repository.CourseRepository
	cache     repository.ReportCache
	validator *Validator
	defaults  SettingsDefaults
	clock     func() time.Time
}

func (u *settingsUsecase) GetSettings(ctx context.Context) (*entity.Settings, error) {
	settings, err := u.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := u.defaults.Settings()
		return &defaults, nil
	}
	return settings, nil
}

func (u *settingsUsecase) UpdateSettings(ctx context.Context, patch entity.SettingsPatch) (*entity.Settings, error) {
	current, err := u.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	next := *current

	if patch.ScaleType != nil {
		scaleType := entity.ParseScaleType(string(*patch.ScaleType))
		if !scaleType.Valid() {
			return nil, entity.NewValidationError(entity.ErrInvalidSettings, "scale_type", "Scale must be 5.0 or 4.0")
		}
		if scaleType != next.ScaleType || !gpa.SameScale(next.GradeMapping, mustCanonical(scaleType)) {
			next.ScaleType = scaleType
			next.GradeMapping = mustCanonical(scaleType)
		}
	}
	if patch.RetakePolicy != nil {
		policy := entity.ParseRetakePolicy(string(*patch.RetakePolicy))
		if !policy.Valid() {
			return nil, entity.NewValidationError(entity.ErrInvalidSettings, "retake_policy", "Retake policy must be replace or keep-both")
		}
		next.RetakePolicy = policy
	}
	if patch.TargetCGPA != nil {
		next.TargetCGPA = *patch.TargetCGPA
	}

	if err := u.validate(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = u.clock().UTC()

	saved, err := u.repo.Save(ctx, &next)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, u.cache)
	return saved, nil
}

func (u *settingsUsecase) validate(settings *entity.Settings) error {
	if err := u.validator.Struct(entity.ErrInvalidSettings, settings); err != nil {
		return err
	}
	if scaleMax := gpa.ScaleMax(settings.GradeMapping); settings.TargetCGPA > scaleMax {
		return entity.NewValidationError(entity.ErrInvalidSettings, "target_cgpa",
			fmt.Sprintf("Target CGPA must be between 0 and %.1f", scaleMax))
	}
	return nil
}

func (u *settingsUsecase) Recalculate(ctx context.Context) (int, error) {
	settings, err := u.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	grouped, err := u.courses.ListGrouped(ctx)
	if err != nil {
		return 0, err
	}

	now := u.clock().UTC()
	var changed []entity.Course
	for _, courses := range grouped {
		for _, course := range courses {
			if gpa.ConsistentGrade(course, settings.GradeMapping) {
				continue
			}
			regraded := gpa.Regrade(course, settings.GradeMapping)
			regraded.UpdatedAt = now
			changed = append(changed, regraded)
		}
	}
	if err := u.courses.UpdateGrades(ctx, changed); err != nil {
		return 0, err
	}
	if len(changed) > 0 {
		invalidateReports(ctx, u.cache)
	}
	return len(changed), nil
}

func mustCanonical(scaleType entity.ScaleType) []entity.GradePoint {
	scale, err := gpa.CanonicalScale(scaleType)
	if err != nil {
		panic(err)
	}
	return scale
}

// invalidateReports drops cached reports after a write. Cache failures only cost a recompute.
func invalidateReports(ctx context.Context, cache repository.ReportCache) {
	if cache == nil {
		return
	}
	_ = cache.Invalidate(ctx)
}

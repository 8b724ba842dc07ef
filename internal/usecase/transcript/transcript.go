// Package transcript loads semesters and courses from a YAML transcript file.
//
// A transcript looks like:
//
//	settings:
//	  scale: "5.0"
//	  retake_policy: replace
//	  target_cgpa: 4.5
//	semesters:
//	  - session: 2023/2024
//	    term: 1
//	    level: 100
//	    courses:
//	      - {code: CSC101, title: Intro to Computing, units: 3, score: 72}
//	      - {code: MTH101, units: 3, letter: B}
package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/usecase"
)

// ErrInvalidTranscript is returned for transcripts that cannot be loaded as a whole.
var ErrInvalidTranscript = errors.New("invalid transcript")

type Transcript struct {
	Settings  *Settings  `yaml:"settings,omitempty"`
	Semesters []Semester `yaml:"semesters"`
}

type Settings struct {
	Scale        string   `yaml:"scale,omitempty"`
	RetakePolicy string   `yaml:"retake_policy,omitempty"`
	TargetCGPA   *float64 `yaml:"target_cgpa,omitempty"`
}

type Semester struct {
	Session string            `yaml:"session,omitempty"`
	Term    int               `yaml:"term"`
	Level   int               `yaml:"level"`
	Courses []gpa.CourseDraft `yaml:"courses"`
}

// Result counts what a load created.
type Result struct {
	Semesters int
	Courses   int
}

// Parse decodes a transcript, rejecting unknown keys.
func Parse(r io.Reader) (*Transcript, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Transcript
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidTranscript)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscript, err)
	}
	if len(t.Semesters) == 0 {
		return nil, fmt.Errorf("%w: no semesters", ErrInvalidTranscript)
	}
	return &t, nil
}

// ParseFile reads and decodes the transcript at path.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Loader writes transcripts through the usecases, so every course is graded like a form entry.
type Loader struct {
	semesters usecase.SemesterUsecase
	courses   usecase.CourseUsecase
	settings  usecase.SettingsUsecase
}

func NewLoader(semesters usecase.SemesterUsecase, courses usecase.CourseUsecase, settings usecase.SettingsUsecase) *Loader {
	return &Loader{semesters: semesters, courses: courses, settings: settings}
}

// Load checks every course first and only then applies settings and creates the records.
func (l *Loader) Load(ctx context.Context, t *Transcript) (*Result, error) {
	patch, err := t.settingsPatch()
	if err != nil {
		return nil, err
	}
	scale, err := l.targetScale(ctx, patch)
	if err != nil {
		return nil, err
	}
	if err := t.check(scale); err != nil {
		return nil, err
	}

	if patch != nil {
		if _, err := l.settings.UpdateSettings(ctx, *patch); err != nil {
			return nil, fmt.Errorf("apply transcript settings: %w", err)
		}
	}

	result := &Result{}
	for i, s := range t.Semesters {
		semester, err := l.semesters.CreateSemester(ctx, &entity.Semester{Session: s.Session, Term: s.Term, Level: s.Level})
		if err != nil {
			return result, fmt.Errorf("semester %d: %w", i+1, err)
		}
		result.Semesters++
		for j, draft := range s.Courses {
			if _, err := l.courses.AddCourse(ctx, semester.ID, draft); err != nil {
				return result, fmt.Errorf("semester %d course %d (%s): %w", i+1, j+1, draft.Code, err)
			}
			result.Courses++
		}
	}
	return result, nil
}

func (t *Transcript) settingsPatch() (*entity.SettingsPatch, error) {
	if t.Settings == nil {
		return nil, nil
	}
	patch := &entity.SettingsPatch{TargetCGPA: t.Settings.TargetCGPA}
	if t.Settings.Scale != "" {
		scale := entity.ParseScaleType(t.Settings.Scale)
		if !scale.Valid() {
			return nil, fmt.Errorf("%w: unknown scale %q", ErrInvalidTranscript, t.Settings.Scale)
		}
		patch.ScaleType = &scale
	}
	if t.Settings.RetakePolicy != "" {
		policy := entity.ParseRetakePolicy(t.Settings.RetakePolicy)
		if !policy.Valid() {
			return nil, fmt.Errorf("%w: unknown retake policy %q", ErrInvalidTranscript, t.Settings.RetakePolicy)
		}
		patch.RetakePolicy = &policy
	}
	return patch, nil
}

// targetScale is the grade mapping courses will be graded under once settings are applied.
func (l *Loader) targetScale(ctx context.Context, patch *entity.SettingsPatch) ([]entity.GradePoint, error) {
	if patch != nil && patch.ScaleType != nil {
		return gpa.CanonicalScale(*patch.ScaleType)
	}
	current, err := l.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return current.GradeMapping, nil
}

func (t *Transcript) check(scale []entity.GradePoint) error {
	for i, s := range t.Semesters {
		var seen []string
		for j, draft := range s.Courses {
			where := fmt.Sprintf("semester %d course %d", i+1, j+1)
			score := 0.0
			if draft.LetterMode() {
				var ok bool
				if score, ok = gpa.ScoreForLetter(draft.Letter, scale); !ok {
					return fmt.Errorf("%w: %s: unknown letter grade %q", ErrInvalidTranscript, where, draft.Letter)
				}
			} else {
				score = *draft.Score
			}
			if v := gpa.ValidateCourse(draft.Code, draft.Units, score); !v.Valid {
				return fmt.Errorf("%w: %s: %s", ErrInvalidTranscript, where, v.Error)
			}
			code := entity.NormalizeCourseCode(draft.Code)
			if lo.Contains(seen, code) {
				return fmt.Errorf("%w: %s: duplicate course code %s", ErrInvalidTranscript, where, code)
			}
			seen = append(seen, code)
		}
	}
	return nil
}

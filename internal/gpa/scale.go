package gpa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
)

var fivePointScale = []entity.GradePoint{
	{Letter: "A", MinScore: 70, MaxScore: 100, Point: 5.0},
	{Letter: "B", MinScore: 60, MaxScore: 69, Point: 4.0},
	{Letter: "C", MinScore: 50, MaxScore: 59, Point: 3.0},
	{Letter: "D", MinScore: 45, MaxScore: 49, Point: 2.0},
	{Letter: "E", MinScore: 40, MaxScore: 44, Point: 1.0},
	{Letter: "F", MinScore: 0, MaxScore: 39, Point: 0.0},
}

var fourPointScale = []entity.GradePoint{
	{Letter: "A", MinScore: 90, MaxScore: 100, Point: 4.0},
	{Letter: "B", MinScore: 80, MaxScore: 89, Point: 3.0},
	{Letter: "C", MinScore: 70, MaxScore: 79, Point: 2.0},
	{Letter: "D", MinScore: 60, MaxScore: 69, Point: 1.0},
	{Letter: "F", MinScore: 0, MaxScore: 59, Point: 0.0},
}

// fallbackGrade is returned when no band matches a score.
var fallbackGrade = entity.Grade{Letter: "F", Point: 0.0}

// FivePointScale returns a copy of the Nigerian 5.0 scale.
func FivePointScale() []entity.GradePoint {
	return cloneScale(fivePointScale)
}

// FourPointScale returns a copy of the US-style 4.0 scale.
func FourPointScale() []entity.GradePoint {
	return cloneScale(fourPointScale)
}

// CanonicalScale returns the built-in scale for scaleType.
func CanonicalScale(scaleType entity.ScaleType) ([]entity.GradePoint, error) {
	switch scaleType {
	case entity.ScaleFivePoint:
		return FivePointScale(), nil
	case entity.ScaleFourPoint:
		return FourPointScale(), nil
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidSettings, string(scaleType))
	}
}

// ScaleMaxFor returns the highest grade point of the built-in scale, or 0 for unknown types.
func ScaleMaxFor(scaleType entity.ScaleType) float64 {
	scale, err := CanonicalScale(scaleType)
	if err != nil {
		return 0
	}
	return ScaleMax(scale)
}

// ScaleMax returns the highest grade point in scale.
func ScaleMax(scale []entity.GradePoint) float64 {
	if len(scale) == 0 {
		return 0
	}
	return lo.MaxBy(scale, func(a, b entity.GradePoint) bool { return a.Point > b.Point }).Point
}

// ResolveGrade finds the first band in scale containing score.
// Scores outside every band, including out-of-range ones, resolve to F / 0.0.
func ResolveGrade(score float64, scale []entity.GradePoint) entity.Grade {
	band, ok := lo.Find(scale, func(g entity.GradePoint) bool { return g.Contains(score) })
	if !ok {
		return fallbackGrade
	}
	return entity.Grade{Letter: band.Letter, Point: band.Point}
}

// ScoreForLetter returns the representative score for a letter: the floor of its band.
func ScoreForLetter(letter string, scale []entity.GradePoint) (float64, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, false
	}
	band, ok := lo.Find(scale, func(g entity.GradePoint) bool { return strings.EqualFold(g.Letter, letter) })
	if !ok {
		return 0, false
	}
	return band.MinScore, true
}

// ValidateScale checks that bands are contiguous, non-overlapping, start at 0 and end at 100.
// Bands are whole-number ranges, so the next band starts one point above the previous maximum.
func ValidateScale(scale []entity.GradePoint) error {
	if len(scale) == 0 {
		return fmt.Errorf("%w: empty grade mapping", entity.ErrInvalidSettings)
	}
	sorted := cloneScale(scale)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	if sorted[0].MinScore != 0 {
		return fmt.Errorf("%w: lowest band must start at 0", entity.ErrInvalidSettings)
	}
	if last := sorted[len(sorted)-1]; last.MaxScore != 100 {
		return fmt.Errorf("%w: highest band must end at 100", entity.ErrInvalidSettings)
	}
	seen := make(map[string]struct{}, len(sorted))
	for i, band := range sorted {
		if strings.TrimSpace(band.Letter) == "" {
			return fmt.Errorf("%w: band %d has no letter", entity.ErrInvalidSettings, i)
		}
		if _, dup := seen[band.Letter]; dup {
			return fmt.Errorf("%w: letter %q appears twice", entity.ErrInvalidSettings, band.Letter)
		}
		seen[band.Letter] = struct{}{}
		if band.MaxScore < band.MinScore {
			return fmt.Errorf("%w: band %s is inverted", entity.ErrInvalidSettings, band.Letter)
		}
		if i > 0 && band.MinScore != sorted[i-1].MaxScore+1 {
			return fmt.Errorf("%w: gap or overlap between %s and %s", entity.ErrInvalidSettings, sorted[i-1].Letter, band.Letter)
		}
	}
	return nil
}

// SameScale reports whether two mappings hold identical bands in the same order.
func SameScale(a, b []entity.GradePoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneScale(scale []entity.GradePoint) []entity.GradePoint {
	out := make([]entity.GradePoint, len(scale))
	copy(out, scale)
	return out
}

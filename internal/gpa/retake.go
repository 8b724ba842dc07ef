package gpa

import (
	"sort"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
)

// IdentifyRetakes maps each course code that appears in more than one semester to the sorted
// ids of the semesters it appears in. Codes are matched case-insensitively and reported in
// their normalized (upper-case) form.
func IdentifyRetakes(coursesBySemester map[string][]entity.Course) map[string][]string {
	occurrences := make(map[string]map[string]struct{})
	for semesterID, courses := range coursesBySemester {
		for _, course := range courses {
			code := entity.NormalizeCourseCode(course.Code)
			if occurrences[code] == nil {
				occurrences[code] = make(map[string]struct{})
			}
			occurrences[code][semesterID] = struct{}{}
		}
	}

	retakes := make(map[string][]string)
	for code, semesters := range occurrences {
		if len(semesters) < 2 {
			continue
		}
		ids := lo.Keys(semesters)
		sort.Strings(ids)
		retakes[code] = ids
	}
	return retakes
}

// RetakeCodes returns the code set of an IdentifyRetakes result.
func RetakeCodes(retakes map[string][]string) map[string]struct{} {
	codes := make(map[string]struct{}, len(retakes))
	for code := range retakes {
		codes[entity.NormalizeCourseCode(code)] = struct{}{}
	}
	return codes
}

// ApplyRetakePolicy filters a flattened course list before aggregation.
//
// With keep-both every attempt counts. With replace only the latest attempt (greatest
// CreatedAt, earliest in input order on ties) of each retake code survives; courses whose
// code is not a retake pass through. The result keeps input order and is always a new slice.
func ApplyRetakePolicy(courses []entity.Course, policy entity.RetakePolicy, retakeCodes map[string]struct{}) []entity.Course {
	if policy != entity.RetakeReplace || len(retakeCodes) == 0 {
		out := make([]entity.Course, len(courses))
		copy(out, courses)
		return out
	}

	isRetake := func(c entity.Course) bool {
		_, ok := retakeCodes[entity.NormalizeCourseCode(c.Code)]
		return ok
	}

	latest := make(map[string]int)
	for i, course := range courses {
		if !isRetake(course) {
			continue
		}
		code := entity.NormalizeCourseCode(course.Code)
		if j, ok := latest[code]; !ok || course.CreatedAt.After(courses[j].CreatedAt) {
			latest[code] = i
		}
	}

	out := make([]entity.Course, 0, len(courses))
	for i, course := range courses {
		if isRetake(course) && latest[entity.NormalizeCourseCode(course.Code)] != i {
			continue
		}
		out = append(out, course)
	}
	return out
}

// OrderSemesters returns semesters sorted by CreatedAt ascending (ties by id).
func OrderSemesters(semesters []entity.Semester) []entity.Semester {
	ordered := make([]entity.Semester, len(semesters))
	copy(ordered, semesters)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered
}

// Flatten concatenates the courses of semesters in display order.
// Courses filed under ids missing from semesters are appended last, grouped by sorted id.
func Flatten(semesters []entity.Semester, coursesBySemester map[string][]entity.Course) []entity.Course {
	ordered := OrderSemesters(semesters)
	known := make(map[string]struct{}, len(ordered))
	var out []entity.Course
	for _, semester := range ordered {
		known[semester.ID] = struct{}{}
		out = append(out, coursesBySemester[semester.ID]...)
	}
	orphans := lo.Filter(lo.Keys(coursesBySemester), func(id string, _ int) bool {
		_, ok := known[id]
		return !ok
	})
	sort.Strings(orphans)
	for _, id := range orphans {
		out = append(out, coursesBySemester[id]...)
	}
	return out
}

// ResolveCourses flattens all courses and applies the retake policy in one pass; the result is
// what CGPA and totals should be computed over.
func ResolveCourses(semesters []entity.Semester, coursesBySemester map[string][]entity.Course, policy entity.RetakePolicy) []entity.Course {
	all := Flatten(semesters, coursesBySemester)
	return ApplyRetakePolicy(all, policy, RetakeCodes(IdentifyRetakes(coursesBySemester)))
}

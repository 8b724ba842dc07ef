package entity

import "strings"

// ScaleType names one of the supported grading scales.
type ScaleType string

const (
	ScaleUnspecified ScaleType = ""
	ScaleFivePoint   ScaleType = "5.0"
	ScaleFourPoint   ScaleType = "4.0"
)

// Valid reports whether the scale type is one of the supported scales.
func (s ScaleType) Valid() bool {
	return s == ScaleFivePoint || s == ScaleFourPoint
}

// ParseScaleType converts loose user input ("5", "5.0", "4", "4.00") into a ScaleType.
func ParseScaleType(raw string) ScaleType {
	switch strings.TrimSpace(raw) {
	case "5", "5.0", "5.00":
		return ScaleFivePoint
	case "4", "4.0", "4.00":
		return ScaleFourPoint
	default:
		return ScaleUnspecified
	}
}

// RetakePolicy controls how repeated course attempts count toward aggregation.
type RetakePolicy string

const (
	RetakeUnspecified RetakePolicy = ""
	RetakeReplace     RetakePolicy = "replace"
	RetakeKeepBoth    RetakePolicy = "keep-both"
)

// Valid reports whether the policy is supported.
func (p RetakePolicy) Valid() bool {
	return p == RetakeReplace || p == RetakeKeepBoth
}

// ParseRetakePolicy converts an arbitrary string into a supported RetakePolicy value.
func ParseRetakePolicy(raw string) RetakePolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "replace", "latest":
		return RetakeReplace
	case "keep-both", "keep_both", "both":
		return RetakeKeepBoth
	default:
		return RetakeUnspecified
	}
}

// NormalizeCourseCode trims and upper-cases a course code. Codes are compared in this form.
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

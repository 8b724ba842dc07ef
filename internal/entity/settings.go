package entity

import "time"

// Settings is the per-installation grading configuration.
type Settings struct {
	ScaleType    ScaleType    `json:"scale_type" validate:"required,oneof=5.0 4.0"`
	GradeMapping []GradePoint `json:"grade_mapping" validate:"required,min=1,dive"`
	RetakePolicy RetakePolicy `json:"retake_policy" validate:"required,oneof=replace keep-both"`
	TargetCGPA   float64      `json:"target_cgpa" validate:"gte=0"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// SettingsPatch carries optional settings updates.
type SettingsPatch struct {
	ScaleType    *ScaleType    `json:"scale_type,omitempty"`
	RetakePolicy *RetakePolicy `json:"retake_policy,omitempty"`
	TargetCGPA   *float64      `json:"target_cgpa,omitempty"`
}

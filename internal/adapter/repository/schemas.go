package repository

import "github.com/eslsoft/gradenet/pkg/filterexpr"

var listCoursesSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"keyword": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Keyword"},
		},
		"code": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Code",
				filterexpr.OpSW: "CodePrefix",
				filterexpr.OpIN: "Codes",
			},
		},
		"semester_id": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "SemesterID",
				filterexpr.OpIN: "SemesterIDs",
			},
		},
		"grade_letter": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "GradeLetter",
				filterexpr.OpIN: "GradeLetters",
			},
		},
		"units": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ:  "Units",
				filterexpr.OpGTE: "MinUnits",
				filterexpr.OpLTE: "MaxUnits",
			},
		},
		"score": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "MinScore",
				filterexpr.OpLTE: "MaxScore",
				filterexpr.OpGT:  "ScoreAbove",
				filterexpr.OpLT:  "ScoreBelow",
			},
		},
		"grade_point": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ:  "GradePoint",
				filterexpr.OpGTE: "MinGradePoint",
				filterexpr.OpLTE: "MaxGradePoint",
			},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedFrom",
				filterexpr.OpLTE: "CreatedTo",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: false,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"created_at":  {Expr: "created_at"},
			"updated_at":  {Expr: "updated_at"},
			"code":        {Expr: "code"},
			"units":       {Expr: "units"},
			"score":       {Expr: "score"},
			"grade_point": {Expr: "grade_point"},
			"id":          {Expr: "id"},
		},
	},
}

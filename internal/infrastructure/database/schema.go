package database

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories and the backup service.
const (
	SemestersTableName = "semesters"
	CoursesTableName   = "courses"
	SettingsTableName  = "settings"

	// SettingsRowID is the primary key of the single settings row.
	SettingsRowID = 1
)

var (
	// SemestersColumns holds the columns for the "semesters" table.
	SemestersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "session", Type: field.TypeString, Size: 16},
		{Name: "term", Type: field.TypeInt},
		{Name: "level", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// SemestersTable holds the schema information for the "semesters" table.
	SemestersTable = &schema.Table{
		Name:       SemestersTableName,
		Columns:    SemestersColumns,
		PrimaryKey: []*schema.Column{SemestersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "semester_created_at", Unique: false, Columns: []*schema.Column{SemestersColumns[4]}},
		},
	}

	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "code", Type: field.TypeString, Size: 32},
		{Name: "title", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "units", Type: field.TypeInt},
		{Name: "score", Type: field.TypeFloat64},
		{Name: "grade_letter", Type: field.TypeString, Size: 4},
		{Name: "grade_point", Type: field.TypeFloat64},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "semester_id", Type: field.TypeString, Size: 36},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       CoursesTableName,
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "courses_semesters_courses",
				Columns:    []*schema.Column{CoursesColumns[9]},
				RefColumns: []*schema.Column{SemestersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "course_semester_id_code", Unique: true, Columns: []*schema.Column{CoursesColumns[9], CoursesColumns[1]}},
			{Name: "course_code", Unique: false, Columns: []*schema.Column{CoursesColumns[1]}},
		},
	}

	// SettingsColumns holds the columns for the "settings" table.
	SettingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "scale_type", Type: field.TypeString, Size: 8},
		{Name: "grade_mapping", Type: field.TypeJSON},
		{Name: "retake_policy", Type: field.TypeString, Size: 16},
		{Name: "target_cgpa", Type: field.TypeFloat64},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &schema.Table{
		Name:       SettingsTableName,
		Columns:    SettingsColumns,
		PrimaryKey: []*schema.Column{SettingsColumns[0]},
	}

	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		SemestersTable,
		CoursesTable,
		SettingsTable,
	}
)

func init() {
	CoursesTable.ForeignKeys[0].RefTable = SemestersTable
}

// ColumnNames returns the column names of table in declaration order.
func ColumnNames(table *schema.Table) []string {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
	}
	return names
}

package filterexpr

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

type query struct {
	filter  string
	orderBy string
}

func (q query) GetFilter() string  { return q.filter }
func (q query) GetOrderBy() string { return q.orderBy }

type courseParams struct {
	Code          *string
	CodePrefix    string
	Letters       []string
	MinUnits      *int
	ScoreAbove    *float64
	ScoreBelow    *float64
	CreatedFrom   *time.Time
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

var courseSchema = ResourceSchema{
	Filter: map[string]FilterField{
		"code": {
			Kind: KindString,
			Ops:  map[Op]string{OpEQ: "Code", OpSW: "CodePrefix"},
		},
		"grade_letter": {
			Kind: KindString,
			Ops:  map[Op]string{OpIN: "Letters"},
		},
		"units": {
			Kind: KindNumber,
			Ops:  map[Op]string{OpGTE: "MinUnits"},
		},
		"score": {
			Kind: KindNumber,
			Ops:  map[Op]string{OpGT: "ScoreAbove", OpLT: "ScoreBelow"},
		},
		"created_at": {
			Kind: KindTimestamp,
			Ops:  map[Op]string{OpGTE: "CreatedFrom"},
		},
	},
	Order: OrderSchema{
		DefaultPrimary: "created_at",
		FallbackKey:    "id",
		Fields: map[string]OrderField{
			"created_at": {Expr: "created_at"},
			"score":      {Expr: "score"},
			"id":         {Expr: "id"},
		},
	},
}

func TestBindCourseFilter(t *testing.T) {
	var params courseParams
	filter := `code.startsWith("CSC") && units >= 3 && score > 44.5 && score < 70 && created_at >= timestamp("2024-09-01T00:00:00Z")`
	if err := Bind(query{filter: filter}, &params, courseSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if params.CodePrefix != "CSC" {
		t.Fatalf("expected CodePrefix CSC, got %q", params.CodePrefix)
	}
	if params.MinUnits == nil || *params.MinUnits != 3 {
		t.Fatalf("expected MinUnits 3, got %v", params.MinUnits)
	}
	if params.ScoreAbove == nil || *params.ScoreAbove != 44.5 {
		t.Fatalf("expected ScoreAbove 44.5, got %v", params.ScoreAbove)
	}
	if params.ScoreBelow == nil || *params.ScoreBelow != 70 {
		t.Fatalf("expected ScoreBelow 70, got %v", params.ScoreBelow)
	}
	want := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	if params.CreatedFrom == nil || !params.CreatedFrom.Equal(want) {
		t.Fatalf("expected CreatedFrom %v, got %v", want, params.CreatedFrom)
	}
	if params.Code != nil {
		t.Fatalf("expected Code to stay nil, got %v", *params.Code)
	}
	if params.PrimaryKey != "created_at" || params.SecondaryKey != "id" {
		t.Fatalf("unexpected default ordering %+v", params)
	}
}

func TestBindInOperator(t *testing.T) {
	var params courseParams
	if err := Bind(query{filter: `grade_letter in ["A", "B"]`}, &params, courseSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if !reflect.DeepEqual(params.Letters, []string{"A", "B"}) {
		t.Fatalf("expected letters [A B], got %v", params.Letters)
	}
}

func TestBindCustomSetter(t *testing.T) {
	type params struct {
		Code          string
		PrimaryKey    string
		PrimaryDesc   bool
		SecondaryKey  string
		SecondaryDesc bool
	}
	schema := courseSchema
	schema.Filter = map[string]FilterField{
		"code": {
			Kind: KindString,
			Ops:  map[Op]string{OpEQ: "Code"},
			Setter: func(field reflect.Value, v any) error {
				field.SetString(strings.ToUpper(v.(string)))
				return nil
			},
		},
	}

	var p params
	if err := Bind(query{filter: `code == "csc101"`}, &p, schema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if p.Code != "CSC101" {
		t.Fatalf("expected setter to upper-case code, got %q", p.Code)
	}
}

func TestBindOrderBy(t *testing.T) {
	cases := []struct {
		orderBy      string
		primary      string
		primaryDesc  bool
		secondary    string
		secondaryDsc bool
	}{
		{"", "created_at", false, "id", false},
		{"score desc", "score", true, "id", false},
		{"score DESC, created_at asc", "score", true, "created_at", false},
		{"id desc", "id", true, "created_at", false},
	}
	for _, c := range cases {
		var p courseParams
		if err := Bind(query{orderBy: c.orderBy}, &p, courseSchema); err != nil {
			t.Fatalf("order %q: %v", c.orderBy, err)
		}
		if p.PrimaryKey != c.primary || p.PrimaryDesc != c.primaryDesc ||
			p.SecondaryKey != c.secondary || p.SecondaryDesc != c.secondaryDsc {
			t.Fatalf("order %q: got %+v", c.orderBy, p)
		}
	}
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		orderBy string
		want    string
	}{
		{name: "unknown field", filter: `title == "x"`, want: "not allowed"},
		{name: "operator not mapped", filter: `units <= 3`, want: "operator"},
		{name: "strict compare on string", filter: `code > "A"`, want: "operator"},
		{name: "bad literal type", filter: `code == 1`, want: "expected string"},
		{name: "or is rejected", filter: `code == "A" || units >= 1`, want: "only AND"},
		{name: "non literal", filter: `units >= score`, want: "right-hand side"},
		{name: "mixed list", filter: `grade_letter in ["A", 1]`, want: "list literal elements must be strings"},
		{name: "fractional int", filter: `units >= 2.5`, want: "non-integer"},
		{name: "unknown order key", orderBy: "title", want: "cannot be used for ordering"},
		{name: "bad direction", orderBy: "score sideways", want: "invalid direction"},
		{name: "duplicate order key", orderBy: "score, score desc", want: "duplicate"},
		{name: "too many keys", orderBy: "score, created_at, id", want: "at most two"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var params courseParams
			err := Bind(query{filter: tc.filter, orderBy: tc.orderBy}, &params, courseSchema)
			if err == nil {
				t.Fatalf("expected error for %q / %q", tc.filter, tc.orderBy)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.want)) {
				t.Fatalf("expected error to contain %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBindNilBinding(t *testing.T) {
	var params *courseParams
	if err := Bind(query{}, params, courseSchema); err == nil {
		t.Fatalf("expected error for nil binding")
	}
}

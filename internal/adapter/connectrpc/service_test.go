package connectrpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/adapter/cache"
	"github.com/eslsoft/gradenet/internal/adapter/mapping"
	adapterrepo "github.com/eslsoft/gradenet/internal/adapter/repository"
	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/usecase"
	"github.com/eslsoft/gradenet/internal/usecase/backup"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.OpenSQLite("file:" + filepath.Join(t.TempDir(), "api.db") + "?_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	semesterRepo := adapterrepo.NewSemesterRepository(db)
	courseRepo := adapterrepo.NewCourseRepository(db)
	settingsRepo := adapterrepo.NewSettingsRepository(db)
	reportCache := cache.Noop{}
	v := usecase.NewValidator()

	settings := usecase.NewSettingsUsecase(settingsRepo, courseRepo, reportCache, v, usecase.SettingsDefaults{
		ScaleType:    entity.ScaleFivePoint,
		RetakePolicy: entity.RetakeReplace,
		TargetCGPA:   4.0,
	})
	semesters := usecase.NewSemesterUsecase(semesterRepo, reportCache, v)
	courses := usecase.NewCourseUsecase(courseRepo, semesterRepo, settings, reportCache)
	reports := usecase.NewReportUsecase(semesterRepo, courseRepo, settings, reportCache)
	planner := usecase.NewPlannerUsecase(reports, settings, usecase.PlanDefaults{RemainingSemesters: 2, UnitsPerSemester: 15})
	backups := backup.NewService(semesterRepo, courseRepo, settingsRepo, adapterrepo.NewSnapshotStore(db), reportCache, v)

	mux := http.NewServeMux()
	reportServer := NewReportServiceServer(reports, planner)
	for _, register := range []func() (string, http.Handler){
		func() (string, http.Handler) { return NewSemesterServiceHandler(NewSemesterServiceServer(semesters)) },
		func() (string, http.Handler) { return NewCourseServiceHandler(NewCourseServiceServer(courses)) },
		func() (string, http.Handler) { return NewSettingsServiceHandler(NewSettingsServiceServer(settings)) },
		func() (string, http.Handler) { return NewReportServiceHandler(reportServer) },
		func() (string, http.Handler) { return NewPlannerServiceHandler(reportServer) },
		func() (string, http.Handler) { return NewBackupServiceHandler(NewBackupServiceServer(backups)) },
	} {
		path, handler := register()
		mux.Handle(path, handler)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func call[Req, Res any](t *testing.T, srv *httptest.Server, service, method string, req *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](srv.Client(), srv.URL+Procedure(service, method), WithJSON())
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func mustCall[Req, Res any](t *testing.T, srv *httptest.Server, service, method string, req *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, srv, service, method, req)
	if err != nil {
		t.Fatalf("%s/%s: %v", service, method, err)
	}
	return res
}

func ptr[T any](v T) *T { return &v }

func TestCourseLifecycleOverConnect(t *testing.T) {
	srv := newTestServer(t)

	sem := mustCall[CreateSemesterRequest, entity.Semester](t, srv, SemesterServiceName, "CreateSemester",
		&CreateSemesterRequest{Session: "2024/2025", Term: 1, Level: 100})
	if sem.ID == "" || sem.Session != "2024/2025" {
		t.Fatalf("unexpected semester %+v", sem)
	}

	added := mustCall[AddCourseRequest, entity.Course](t, srv, CourseServiceName, "AddCourse",
		&AddCourseRequest{SemesterID: sem.ID, CourseDraft: gpa.CourseDraft{Code: "csc101", Units: 3, Score: ptr(70.0)}})
	if added.Code != "CSC101" || added.GradeLetter != "A" || added.GradePoint != 5 {
		t.Fatalf("unexpected course %+v", added)
	}
	mustCall[AddCourseRequest, entity.Course](t, srv, CourseServiceName, "AddCourse",
		&AddCourseRequest{SemesterID: sem.ID, CourseDraft: gpa.CourseDraft{Code: "MTH101", Units: 2, Letter: "C"}})

	_, err := call[AddCourseRequest, entity.Course](t, srv, CourseServiceName, "AddCourse",
		&AddCourseRequest{SemesterID: sem.ID, CourseDraft: gpa.CourseDraft{Code: "Csc101", Units: 3, Score: ptr(50.0)}})
	var cerr *connect.Error
	if !errors.As(err, &cerr) || cerr.Code() != connect.CodeAlreadyExists {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
	if field := cerr.Meta().Get(mapping.FieldHeader); field != "code" {
		t.Fatalf("expected field header code, got %q", field)
	}

	listed := mustCall[ListCoursesRequest, ListCoursesResponse](t, srv, CourseServiceName, "ListCourses",
		&ListCoursesRequest{SemesterID: sem.ID})
	if len(listed.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(listed.Courses))
	}

	search := mustCall[SearchCoursesRequest, ListCoursesResponse](t, srv, CourseServiceName, "SearchCourses",
		&SearchCoursesRequest{Filter: `units >= 3`, OrderBy: "score desc"})
	if search.Pagination == nil || search.Pagination.Total != 1 || search.Courses[0].Code != "CSC101" {
		t.Fatalf("unexpected search result %+v", search)
	}

	dash := mustCall[Empty, gpa.Summary](t, srv, ReportServiceName, "GetDashboard", &Empty{})
	// (3*5 + 2*3) / 5 = 4.2
	if dash.CGPA != 4.2 || dash.Totals.Units != 5 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}

	plan := mustCall[usecase.PlanRequest, usecase.Plan](t, srv, PlannerServiceName, "Plan",
		&usecase.PlanRequest{TargetCGPA: ptr(4.5)})
	if plan.Input.UnitsCompleted != 5 || len(plan.Projection.Points) != 2 {
		t.Fatalf("unexpected plan %+v", plan)
	}

	mustCall[IDRequest, Empty](t, srv, SemesterServiceName, "DeleteSemester", &IDRequest{ID: sem.ID})
	_, err = call[IDRequest, entity.Semester](t, srv, SemesterServiceName, "GetSemester", &IDRequest{ID: sem.ID})
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestSettingsErrorsOverConnect(t *testing.T) {
	srv := newTestServer(t)

	got := mustCall[Empty, entity.Settings](t, srv, SettingsServiceName, "GetSettings", &Empty{})
	if got.ScaleType != entity.ScaleFivePoint || got.TargetCGPA != 4.0 {
		t.Fatalf("unexpected default settings %+v", got)
	}

	_, err := call[entity.SettingsPatch, entity.Settings](t, srv, SettingsServiceName, "UpdateSettings",
		&entity.SettingsPatch{TargetCGPA: ptr(5.5)})
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	scale := entity.ScaleFourPoint
	updated := mustCall[entity.SettingsPatch, entity.Settings](t, srv, SettingsServiceName, "UpdateSettings",
		&entity.SettingsPatch{ScaleType: &scale, TargetCGPA: ptr(3.5)})
	if updated.ScaleType != entity.ScaleFourPoint || !gpa.SameScale(updated.GradeMapping, gpa.FourPointScale()) {
		t.Fatalf("expected 4.0 scale after switch, got %+v", updated)
	}

	validation := mustCall[ValidateCourseRequest, gpa.Validation](t, srv, CourseServiceName, "ValidateCourse",
		&ValidateCourseRequest{Code: "CSC101", Units: 0, Score: 50})
	if validation.Valid || validation.Error != "Units must be greater than 0" {
		t.Fatalf("unexpected validation %+v", validation)
	}
}

func TestBackupOverConnect(t *testing.T) {
	src := newTestServer(t)
	sem := mustCall[CreateSemesterRequest, entity.Semester](t, src, SemesterServiceName, "CreateSemester",
		&CreateSemesterRequest{Session: "2023/2024", Term: 2, Level: 200})
	mustCall[AddCourseRequest, entity.Course](t, src, CourseServiceName, "AddCourse",
		&AddCourseRequest{SemesterID: sem.ID, CourseDraft: gpa.CourseDraft{Code: "PHY201", Units: 4, Score: ptr(62.0)}})
	policy := entity.RetakeKeepBoth
	mustCall[entity.SettingsPatch, entity.Settings](t, src, SettingsServiceName, "UpdateSettings",
		&entity.SettingsPatch{RetakePolicy: &policy})

	exported := mustCall[ExportRequest, ExportResponse](t, src, BackupServiceName, "Export", &ExportRequest{})
	if !strings.Contains(exported.Snapshot, `"PHY201"`) {
		t.Fatalf("expected course in snapshot, got %s", exported.Snapshot)
	}

	dst := newTestServer(t)
	imported := mustCall[ImportRequest, ImportResponse](t, dst, BackupServiceName, "Import",
		&ImportRequest{Snapshot: exported.Snapshot})
	if imported.Semesters != 1 || imported.Courses != 1 || !imported.Settings {
		t.Fatalf("unexpected import result %+v", imported)
	}
	report := mustCall[IDRequest, usecase.SemesterReport](t, dst, ReportServiceName, "GetSemesterReport", &IDRequest{ID: sem.ID})
	if report.GPA != 4 || len(report.Courses) != 1 {
		t.Fatalf("unexpected report after import %+v", report)
	}

	_, err := call[ImportRequest, ImportResponse](t, dst, BackupServiceName, "Import", &ImportRequest{Snapshot: "not json\n"})
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument for garbage snapshot, got %v", err)
	}
}

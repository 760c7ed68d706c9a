package canvas

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/campusops/canvas-enrollments/internal/testutil"
	"github.com/campusops/canvas-enrollments/pkg/client"
)

func newTestService(t *testing.T, mock *testutil.MockCanvas) *Service {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL: mock.URL(),
		Token:   "test-token",
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return NewService(c)
}

func TestGetCourse(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	mock.SetHandler("/courses/101", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("include[]") != "account" {
			t.Errorf("include[] = %q, want %q", r.URL.Query().Get("include[]"), "account")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 101, "name": "Intro a Go", "account_id": 55}`))
	})

	svc := newTestService(t, mock)

	course, err := svc.GetCourse(context.Background(), "101")
	if err != nil {
		t.Fatalf("GetCourse() error = %v", err)
	}

	if course.ID != 101 {
		t.Errorf("ID = %d, want 101", course.ID)
	}
	if course.Name != "Intro a Go" {
		t.Errorf("Name = %q, want %q", course.Name, "Intro a Go")
	}
	if course.AccountID != 55 {
		t.Errorf("AccountID = %d, want 55", course.AccountID)
	}
}

func TestGetCourse_NotFound(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	svc := newTestService(t, mock)

	_, err := svc.GetCourse(context.Background(), "99999")
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("GetCourse() error = %v, want ErrNotFound passed through", err)
	}
}

func TestGetAccount(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	mock.SetJSON("/accounts/55", map[string]any{"id": 55, "name": "Diplomado en Datos"})

	svc := newTestService(t, mock)

	account, err := svc.GetAccount(context.Background(), 55)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Name != "Diplomado en Datos" {
		t.Errorf("Name = %q, want %q", account.Name, "Diplomado en Datos")
	}
}

func TestGetEnrollments(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	mock.SetHandler("/courses/101/enrollments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "100" {
			t.Errorf("per_page = %q, want %q", r.URL.Query().Get("per_page"), "100")
		}
		if r.URL.Query().Get("include[]") != "" {
			t.Errorf("include[] = %q, want unset without user expansion", r.URL.Query().Get("include[]"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "type": "StudentEnrollment", "enrollment_state": "active", "course_section_id": 7},
			{"id": 2, "type": "TeacherEnrollment", "role": "TeacherEnrollment", "enrollment_state": "active"}
		]`))
	})

	svc := newTestService(t, mock)

	enrollments, err := svc.GetEnrollments(context.Background(), "101", false)
	if err != nil {
		t.Fatalf("GetEnrollments() error = %v", err)
	}

	if len(enrollments) != 2 {
		t.Fatalf("len = %d, want 2", len(enrollments))
	}
	if enrollments[0].Type != TypeStudent {
		t.Errorf("Type = %q, want %q", enrollments[0].Type, TypeStudent)
	}
	if enrollments[0].CourseSectionID != 7 {
		t.Errorf("CourseSectionID = %d, want 7", enrollments[0].CourseSectionID)
	}
	if enrollments[0].User != nil {
		t.Error("User should be nil without user expansion")
	}
}

func TestGetEnrollments_WithUser(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	mock.SetHandler("/courses/101/enrollments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("include[]") != "user" {
			t.Errorf("include[] = %q, want %q", r.URL.Query().Get("include[]"), "user")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "type": "StudentEnrollment", "enrollment_state": "active",
			 "user": {"id": 42, "name": "Ana Quispe", "login_id": "ana.quispe", "sis_user_id": "A001"}}
		]`))
	})

	svc := newTestService(t, mock)

	enrollments, err := svc.GetEnrollments(context.Background(), "101", true)
	if err != nil {
		t.Fatalf("GetEnrollments() error = %v", err)
	}

	if len(enrollments) != 1 {
		t.Fatalf("len = %d, want 1", len(enrollments))
	}
	user := enrollments[0].User
	if user == nil {
		t.Fatal("User should be embedded")
	}
	if user.ID != 42 || user.Name != "Ana Quispe" || user.LoginID != "ana.quispe" {
		t.Errorf("User = %+v, want id=42 name=Ana Quispe login=ana.quispe", user)
	}
	if enrollments[0].UserName() != "Ana Quispe" {
		t.Errorf("UserName() = %q, want %q", enrollments[0].UserName(), "Ana Quispe")
	}
}

func TestGetEnrollments_MissingCourseYieldsEmpty(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	svc := newTestService(t, mock)

	enrollments, err := svc.GetEnrollments(context.Background(), "99999", false)
	if err != nil {
		t.Fatalf("GetEnrollments() error = %v, want nil for missing course", err)
	}
	if len(enrollments) != 0 {
		t.Errorf("len = %d, want 0", len(enrollments))
	}
}

func TestGetEnrollments_Paginated(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	items := make([]any, 0, 6)
	for i := 1; i <= 6; i++ {
		items = append(items, map[string]any{"id": i, "type": "StudentEnrollment", "enrollment_state": "active"})
	}
	mock.SetPaginated("/courses/101/enrollments", items, 2)

	svc := newTestService(t, mock)

	enrollments, err := svc.GetEnrollments(context.Background(), "101", false)
	if err != nil {
		t.Fatalf("GetEnrollments() error = %v", err)
	}
	if len(enrollments) != 6 {
		t.Errorf("len = %d, want 6 across 3 pages", len(enrollments))
	}
}

func TestUserName(t *testing.T) {
	if got := (Enrollment{}).UserName(); got != "" {
		t.Errorf("UserName() = %q, want empty for nil user", got)
	}
	e := Enrollment{User: &User{Name: "Test Student"}}
	if got := e.UserName(); got != "Test Student" {
		t.Errorf("UserName() = %q, want %q", got, "Test Student")
	}
}

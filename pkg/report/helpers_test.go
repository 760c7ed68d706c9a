package report

import (
	"testing"

	"github.com/campusops/canvas-enrollments/internal/testutil"
	"github.com/campusops/canvas-enrollments/pkg/canvas"
	"github.com/campusops/canvas-enrollments/pkg/client"
)

// newTestService wires a canvas.Service to a mock server.
func newTestService(t *testing.T, mock *testutil.MockCanvas) *canvas.Service {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL: mock.URL(),
		Token:   "test-token",
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	return canvas.NewService(c)
}

// serveCourse registers a course with its account and enrollment roster.
func serveCourse(mock *testutil.MockCanvas, courseID string, course map[string]any, enrollments []any) {
	mock.SetJSON("/courses/"+courseID, course)
	mock.SetJSON("/courses/"+courseID+"/enrollments", enrollments)
}

// student builds a StudentEnrollment fixture.
func student(id int, state, name string) map[string]any {
	return map[string]any{
		"id":               id,
		"type":             "StudentEnrollment",
		"role":             "StudentEnrollment",
		"enrollment_state": state,
		"user":             map[string]any{"id": 1000 + id, "name": name},
	}
}

package report

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/campusops/canvas-enrollments/internal/testutil"
	"github.com/campusops/canvas-enrollments/pkg/client"
)

func TestProcessCourses_OrderedByCourseID(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	for _, id := range []string{"30", "10", "20"} {
		serveCourse(mock, id, map[string]any{"name": "Curso " + id}, []any{
			student(1, "active", "Ana Quispe"),
		})
	}

	svc := newTestService(t, mock)

	summaries, err := ProcessCourses(context.Background(), svc, []string{"30", "10", "20"}, 3)
	if err != nil {
		t.Fatalf("ProcessCourses() error = %v", err)
	}

	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	for i, want := range []int64{10, 20, 30} {
		if summaries[i].ID != want {
			t.Errorf("summaries[%d].ID = %d, want %d", i, summaries[i].ID, want)
		}
	}
}

func TestProcessCourses_MixedFoundAndNotFound(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	serveCourse(mock, "10", map[string]any{"id": 10, "name": "Curso A"}, []any{
		student(1, "active", "Ana Quispe"),
	})
	// course 99999 is not registered: 404

	svc := newTestService(t, mock)

	summaries, err := ProcessCourses(context.Background(), svc, []string{"99999", "10"}, 2)
	if err != nil {
		t.Fatalf("ProcessCourses() error = %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2 (not-found courses appear as sentinel rows)", len(summaries))
	}
	if summaries[0].ID != 10 || summaries[0].Activos != 1 {
		t.Errorf("summaries[0] = %+v, want course 10 with 1 active", summaries[0])
	}
	if summaries[1].ID != 99999 || summaries[1].Curso != NotFoundCourseName {
		t.Errorf("summaries[1] = %+v, want NO ENCONTRADO sentinel", summaries[1])
	}
}

func TestProcessCourses_AbortsOnFirstError(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	serveCourse(mock, "10", map[string]any{"id": 10, "name": "Curso A"}, []any{})
	mock.SetStatus("/courses/20", http.StatusInternalServerError, `{"errors": "boom"}`)

	svc := newTestService(t, mock)

	summaries, err := ProcessCourses(context.Background(), svc, []string{"10", "20"}, 2)

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ProcessCourses() error = %v, want *client.APIError", err)
	}
	if summaries != nil {
		t.Errorf("summaries = %v, want nil (partial results discarded)", summaries)
	}
}

func TestProcessCourseDetails(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()

	for _, id := range []string{"20", "10"} {
		serveCourse(mock, id, map[string]any{"name": "Curso " + id}, []any{
			map[string]any{
				"id": 1, "type": "StudentEnrollment", "enrollment_state": "active",
				"user": map[string]any{"id": 41, "name": "Ana Quispe", "login_id": "ana.quispe"},
			},
		})
	}

	svc := newTestService(t, mock)

	details, err := ProcessCourseDetails(context.Background(), svc, []string{"20", "10"}, 0)
	if err != nil {
		t.Fatalf("ProcessCourseDetails() error = %v", err)
	}

	if len(details) != 2 {
		t.Fatalf("len = %d, want 2", len(details))
	}
	if details[0].ID != 10 || details[1].ID != 20 {
		t.Errorf("order = [%d, %d], want [10, 20]", details[0].ID, details[1].ID)
	}
	if len(details[0].Activos) != 1 {
		t.Errorf("Activos = %d, want 1", len(details[0].Activos))
	}
}

func TestRunBatch_Empty(t *testing.T) {
	got, err := runBatch(context.Background(), nil, 8,
		func(ctx context.Context, id string) (int, error) { return 0, nil },
		func(v int) int64 { return int64(v) })
	if err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestRunBatch_BoundedConcurrency(t *testing.T) {
	var running, peak atomic.Int32

	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	_, err := runBatch(context.Background(), ids, 2,
		func(ctx context.Context, id string) (string, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer running.Add(-1)
			return id, nil
		},
		func(string) int64 { return 0 })
	if err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestRunBatch_DuplicateIDsKeepSubmissionOrder(t *testing.T) {
	type tagged struct {
		id  int64
		tag string
	}

	calls := atomic.Int32{}
	got, err := runBatch(context.Background(), []string{"7", "7", "7"}, 3,
		func(ctx context.Context, id string) (tagged, error) {
			n := calls.Add(1)
			return tagged{id: 7, tag: string(rune('a' + n - 1))}, nil
		},
		func(v tagged) int64 { return v.id })
	if err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (duplicates preserved)", len(got))
	}
}

func TestRunBatch_FirstErrorWins(t *testing.T) {
	wantErr := errors.New("task failed")

	_, err := runBatch(context.Background(), []string{"1", "2", "3"}, 1,
		func(ctx context.Context, id string) (int, error) {
			if id == "1" {
				return 0, wantErr
			}
			t.Errorf("task %s ran after the batch should have aborted", id)
			return 0, nil
		},
		func(int) int64 { return 0 })

	if !errors.Is(err, wantErr) {
		t.Errorf("runBatch() error = %v, want %v", err, wantErr)
	}
}

package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/campusops/canvas-enrollments/pkg/canvas"
	"github.com/campusops/canvas-enrollments/pkg/client"
)

const (
	// NotFoundCourseName is the sentinel course name for ids that do not
	// exist upstream. The summary row still appears, with all counters zero.
	NotFoundCourseName = "NO ENCONTRADO"

	// roleSeparator joins the per-role counts in the "Otros Roles" column.
	roleSeparator = " · "

	// fallbackRole labels enrollments that carry neither a role nor a type.
	fallbackRole = "Otro"

	testStudentName = "test student"
)

// Summary is one report row: enrollment counts for a single course.
type Summary struct {
	ID           int64
	Curso        string
	Diplomado    string
	Activos      int
	Completados  int
	OtrosEstados int
	OtrosRoles   string
}

// excluded reports whether an enrollment belongs to the synthetic Test
// Student identity and must be left out of every count and exported row.
func excluded(e canvas.Enrollment) bool {
	if e.Type == canvas.TypeStudentView {
		return true
	}
	return strings.ToLower(strings.TrimSpace(e.UserName())) == testStudentName
}

// roleLabel resolves the display role: explicit role, then enrollment type,
// then the fallback literal.
func roleLabel(e canvas.Enrollment) string {
	if e.Role != "" {
		return e.Role
	}
	if e.Type != "" {
		return e.Type
	}
	return fallbackRole
}

// courseTitle applies the name fallback for courses without one.
func courseTitle(courseID string, name string) string {
	if name == "" {
		return "Curso " + courseID
	}
	return name
}

// accountName resolves the owning account's name. An absent account yields
// "" rather than an error; other failures propagate.
func accountName(ctx context.Context, svc *canvas.Service, accountID int64) (string, error) {
	if accountID == 0 {
		return "", nil
	}

	account, err := svc.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if account.Name == "" {
		return fmt.Sprintf("Account %d", accountID), nil
	}
	return account.Name, nil
}

// SummarizeCourse resolves one course and reduces its enrollments into
// per-state counts. A missing course yields the NO ENCONTRADO sentinel row.
// Any non-404 API failure propagates and aborts the run.
func SummarizeCourse(ctx context.Context, svc *canvas.Service, courseID string) (Summary, error) {
	id, err := strconv.ParseInt(courseID, 10, 64)
	if err != nil {
		return Summary{}, fmt.Errorf("course id %q is not numeric: %w", courseID, err)
	}

	course, err := svc.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return Summary{ID: id, Curso: NotFoundCourseName}, nil
		}
		return Summary{}, err
	}

	diplomado, err := accountName(ctx, svc, course.AccountID)
	if err != nil {
		return Summary{}, err
	}

	// Names are not needed for counting; skip the user expansion.
	enrollments, err := svc.GetEnrollments(ctx, courseID, false)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		ID:        id,
		Curso:     courseTitle(courseID, course.Name),
		Diplomado: diplomado,
	}

	otherRoles := make(map[string]int)
	for _, e := range enrollments {
		if excluded(e) {
			continue
		}

		if e.Type == canvas.TypeStudent {
			switch e.EnrollmentState {
			case canvas.StateActive:
				summary.Activos++
			case canvas.StateCompleted:
				summary.Completados++
			default:
				summary.OtrosEstados++
			}
		} else {
			otherRoles[roleLabel(e)]++
		}
	}

	summary.OtrosRoles = renderRoleCounts(otherRoles)

	return summary, nil
}

// renderRoleCounts renders "role: count" pairs sorted by role name.
// Returns "" when no other roles exist.
func renderRoleCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}

	roles := make([]string, 0, len(counts))
	for role := range counts {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	pairs := make([]string, 0, len(roles))
	for _, role := range roles {
		pairs = append(pairs, fmt.Sprintf("%s: %d", role, counts[role]))
	}
	return strings.Join(pairs, roleSeparator)
}

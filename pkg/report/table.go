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

// EnrollmentColumns is the fixed schema of the exported roster, in column
// order. It is emitted even when the table has zero rows.
var EnrollmentColumns = []string{
	"id_curso", "Curso", "Diplomado", "user_id", "nombre", "login_id", "sis_user_id",
	"tipo_matricula", "rol", "estado", "seccion_id", "enrollment_id",
	"created_at", "updated_at", "last_activity_at",
}

// EnrollmentRow is one roster row: an enrollment joined with its user and
// denormalized course/account names. Field order matches EnrollmentColumns.
type EnrollmentRow struct {
	CourseID       int64
	Curso          string
	Diplomado      string
	UserID         int64 // 0 when the user record is absent
	Nombre         string
	LoginID        string
	SISUserID      string
	Tipo           string
	Rol            string
	Estado         string
	SeccionID      int64
	EnrollmentID   int64
	CreatedAt      string
	UpdatedAt      string
	LastActivityAt string
}

// courseInfo is the cached per-course lookup inside one aggregation call.
type courseInfo struct {
	name      string
	accountID int64
}

// BuildEnrollmentTable produces the flat roster of every non-excluded
// enrollment across the given courses. Course and account lookups are cached
// within this call only; separate invocations fetch fresh. Rows are sorted by
// (numeric course id, enrollment type, state, user name).
func BuildEnrollmentTable(ctx context.Context, svc *canvas.Service, courseIDs []string) ([]EnrollmentRow, error) {
	rows := make([]EnrollmentRow, 0)
	courseCache := make(map[string]courseInfo)
	accountCache := make(map[int64]string)

	for _, cid := range courseIDs {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("course id %q is not numeric: %w", cid, err)
		}

		info, ok := courseCache[cid]
		if !ok {
			course, err := svc.GetCourse(ctx, cid)
			if err != nil {
				if !errors.Is(err, client.ErrNotFound) {
					return nil, err
				}
				course = &canvas.Course{}
			}
			info = courseInfo{
				name:      courseTitle(cid, course.Name),
				accountID: course.AccountID,
			}
			courseCache[cid] = info

			if info.accountID != 0 {
				if _, ok := accountCache[info.accountID]; !ok {
					name, err := tableAccountName(ctx, svc, info.accountID)
					if err != nil {
						return nil, err
					}
					accountCache[info.accountID] = name
				}
			}
		}

		enrollments, err := svc.GetEnrollments(ctx, cid, true)
		if err != nil {
			return nil, err
		}

		for _, e := range enrollments {
			if excluded(e) {
				continue
			}

			row := EnrollmentRow{
				CourseID:       id,
				Curso:          info.name,
				Diplomado:      accountCache[info.accountID],
				Tipo:           e.Type,
				Rol:            rosterRole(e),
				Estado:         e.EnrollmentState,
				SeccionID:      e.CourseSectionID,
				EnrollmentID:   e.ID,
				CreatedAt:      e.CreatedAt,
				UpdatedAt:      e.UpdatedAt,
				LastActivityAt: e.LastActivityAt,
			}
			if e.User != nil {
				row.UserID = e.User.ID
				row.Nombre = strings.TrimSpace(e.User.Name)
				row.LoginID = e.User.LoginID
				row.SISUserID = e.User.SISUserID
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.CourseID != b.CourseID {
			return a.CourseID < b.CourseID
		}
		if a.Tipo != b.Tipo {
			return a.Tipo < b.Tipo
		}
		if a.Estado != b.Estado {
			return a.Estado < b.Estado
		}
		return a.Nombre < b.Nombre
	})

	return rows, nil
}

// rosterRole is the roster's role fallback: role, then type, with no "Otro"
// literal (the roster keeps whatever the enrollment carries).
func rosterRole(e canvas.Enrollment) string {
	if e.Role != "" {
		return e.Role
	}
	return e.Type
}

// tableAccountName resolves an account name for the roster. Unlike the
// summary, an absent account keeps the "Account {id}" placeholder so the
// Diplomado column is never silently blank for a real account id.
func tableAccountName(ctx context.Context, svc *canvas.Service, accountID int64) (string, error) {
	account, err := svc.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Sprintf("Account %d", accountID), nil
		}
		return "", err
	}
	if account.Name == "" {
		return fmt.Sprintf("Account %d", accountID), nil
	}
	return account.Name, nil
}

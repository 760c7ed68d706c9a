package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/campusops/canvas-enrollments/pkg/canvas"
	"github.com/campusops/canvas-enrollments/pkg/client"
)

// Sentinels for user fields that are absent upstream.
const (
	noName  = "Sin nombre"
	noEmail = "Sin email"
	noID    = "Sin ID"
)

// StudentInfo is one per-student record in the on-screen detail breakdown.
type StudentInfo struct {
	Nombre string
	Email  string
	UserID string
	Estado string
	Rol    string
}

// CourseDetail retains full per-student records for one course instead of
// counts. Bucket order follows the API response order.
type CourseDetail struct {
	ID           int64
	Curso        string
	Diplomado    string
	Activos      []StudentInfo
	Completados  []StudentInfo
	OtrosEstados []StudentInfo
	OtrosRoles   []StudentInfo
}

// BuildCourseDetail is SummarizeCourse with full per-student records: same
// resolution steps, but enrollments are fetched with the user expansion and
// appended to one of four ordered buckets.
func BuildCourseDetail(ctx context.Context, svc *canvas.Service, courseID string) (CourseDetail, error) {
	id, err := strconv.ParseInt(courseID, 10, 64)
	if err != nil {
		return CourseDetail{}, fmt.Errorf("course id %q is not numeric: %w", courseID, err)
	}

	course, err := svc.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return CourseDetail{ID: id, Curso: NotFoundCourseName}, nil
		}
		return CourseDetail{}, err
	}

	diplomado, err := accountName(ctx, svc, course.AccountID)
	if err != nil {
		return CourseDetail{}, err
	}

	enrollments, err := svc.GetEnrollments(ctx, courseID, true)
	if err != nil {
		return CourseDetail{}, err
	}

	detail := CourseDetail{
		ID:        id,
		Curso:     courseTitle(courseID, course.Name),
		Diplomado: diplomado,
	}

	for _, e := range enrollments {
		if excluded(e) {
			continue
		}

		info := studentInfo(e)

		if e.Type == canvas.TypeStudent {
			switch e.EnrollmentState {
			case canvas.StateActive:
				detail.Activos = append(detail.Activos, info)
			case canvas.StateCompleted:
				detail.Completados = append(detail.Completados, info)
			default:
				detail.OtrosEstados = append(detail.OtrosEstados, info)
			}
		} else {
			detail.OtrosRoles = append(detail.OtrosRoles, info)
		}
	}

	return detail, nil
}

// studentInfo maps an enrollment to its display record, applying the
// documented fallbacks: name -> "Sin nombre", login id -> email ->
// "Sin email", missing user id -> "Sin ID".
func studentInfo(e canvas.Enrollment) StudentInfo {
	info := StudentInfo{
		Nombre: noName,
		Email:  noEmail,
		UserID: noID,
		Estado: e.EnrollmentState,
		Rol:    roleLabel(e),
	}

	if e.User == nil {
		return info
	}

	if e.User.Name != "" {
		info.Nombre = e.User.Name
	}
	if e.User.LoginID != "" {
		info.Email = e.User.LoginID
	} else if e.User.Email != "" {
		info.Email = e.User.Email
	}
	if e.User.ID != 0 {
		info.UserID = strconv.FormatInt(e.User.ID, 10)
	}

	return info
}

// Package canvas provides typed accessors over the Canvas REST API for the
// course, account, and enrollment resources the reports consume.
package canvas

// Enrollment types with fixed meaning. Custom roles appear as additional
// type strings and are carried through untouched.
const (
	// TypeStudent is a regular student enrollment.
	TypeStudent = "StudentEnrollment"

	// TypeTeacher is a teacher enrollment.
	TypeTeacher = "TeacherEnrollment"

	// TypeStudentView is the synthetic per-course preview identity Canvas
	// auto-generates; always excluded from reporting.
	TypeStudentView = "StudentViewEnrollment"
)

// Enrollment states with fixed meaning in the summary. The vocabulary is
// open; unknown states count as "other".
const (
	StateActive    = "active"
	StateCompleted = "completed"
)

// Course is a unit of instruction, identified by a numeric id.
type Course struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AccountID int64  `json:"account_id"`
}

// Account is the parent organizational grouping ("Diplomado") of a course.
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is the person behind an enrollment, embedded when requested with
// include[]=user.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LoginID   string `json:"login_id"`
	Email     string `json:"email"`
	SISUserID string `json:"sis_user_id"`
}

// Enrollment links one user to one course with a type, role, and state.
type Enrollment struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Role            string `json:"role"`
	EnrollmentState string `json:"enrollment_state"`
	CourseSectionID int64  `json:"course_section_id"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	LastActivityAt  string `json:"last_activity_at"`
	User            *User  `json:"user,omitempty"`
}

// UserName returns the enrolled user's display name, or "" when the user
// record is absent or unnamed.
func (e Enrollment) UserName() string {
	if e.User == nil {
		return ""
	}
	return e.User.Name
}

package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campusops/canvas-enrollments/pkg/client"
)

// enrollmentPageSize is the per_page value for enrollment listings.
const enrollmentPageSize = 100

// Service exposes the three Canvas endpoints the reports need. It adds no
// logic beyond endpoint and parameter shaping; pagination and error mapping
// live in the client.
type Service struct {
	client *client.Client
}

// NewService creates a Service over an authenticated client.
func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

// GetCourse fetches a course with its account embedded.
// Returns client.ErrNotFound untouched when the course does not exist.
func (s *Service) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	params := url.Values{"include[]": {"account"}}

	raw, err := s.client.Fetch(ctx, "/courses/"+courseID, params)
	if err != nil {
		return nil, err
	}

	var course Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", courseID, err)
	}
	return &course, nil
}

// GetAccount fetches an account by id.
// Returns client.ErrNotFound untouched when the account does not exist.
func (s *Service) GetAccount(ctx context.Context, accountID int64) (*Account, error) {
	raw, err := s.client.Fetch(ctx, "/accounts/"+strconv.FormatInt(accountID, 10), nil)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("decode account %d: %w", accountID, err)
	}
	return &account, nil
}

// GetEnrollments fetches every enrollment of a course across all pages,
// regardless of type, so custom roles are captured. withUser embeds the user
// record in each enrollment. A missing course yields an empty list here; the
// "not found" distinction is made on the course lookup, not the roster.
func (s *Service) GetEnrollments(ctx context.Context, courseID string, withUser bool) ([]Enrollment, error) {
	params := url.Values{"per_page": {strconv.Itoa(enrollmentPageSize)}}
	if withUser {
		params.Add("include[]", "user")
	}

	raw, err := s.client.Fetch(ctx, "/courses/"+courseID+"/enrollments", params)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var enrollments []Enrollment
	if err := json.Unmarshal(raw, &enrollments); err != nil {
		return nil, fmt.Errorf("decode enrollments for course %s: %w", courseID, err)
	}
	return enrollments, nil
}

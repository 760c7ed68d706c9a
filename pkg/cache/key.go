package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached Canvas response by endpoint path and query.
type Key struct {
	// Endpoint is the Canvas endpoint path (e.g. "/courses/101/enrollments")
	Endpoint string

	// Query are the request's query parameters
	Query url.Values
}

// String generates a deterministic Redis key.
// Format: canvas:endpoint:query1=val1:query2=val2
//
// Example:
//
//	canvas:courses/101/enrollments:include[]=user:per_page=100
func (k Key) String() string {
	parts := []string{"canvas"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(k.Query[name], ",")))
		}
	}

	return strings.Join(parts, ":")
}

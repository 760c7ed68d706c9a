package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Fetch performs one logical authenticated GET against the Canvas API.
//
// Array bodies are paginated: the "next" link relation from the Link response
// header is followed until absent, and every page's elements are concatenated
// into a single JSON array in server order. Non-array bodies are returned
// as-is with no pagination attempt.
//
// A 404 on the first request returns ErrNotFound. Any other non-2xx status,
// on any page, returns an *APIError. There are no retries: one logical fetch
// may span several physical requests, but each runs exactly once.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	body, header, status, err := c.getPage(ctx, c.buildURL(endpoint, params))
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		c.logger.Debug().Str("endpoint", endpoint).Msg("Resource not found")
		return nil, ErrNotFound
	}
	if status >= 400 {
		return nil, &APIError{
			StatusCode: status,
			ErrorClass: classifyStatus(status),
			Endpoint:   endpoint,
			Body:       string(body),
		}
	}

	// Non-array bodies pass through untouched
	if !isJSONArray(body) {
		return json.RawMessage(body), nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode page for %s: %w", endpoint, err)
	}

	pages := 1
	for next := nextLink(header); next != ""; next = nextLink(header) {
		var status int
		body, header, status, err = c.getPage(ctx, next)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, &APIError{
				StatusCode: status,
				ErrorClass: classifyStatus(status),
				Endpoint:   endpoint,
				Body:       string(body),
			}
		}

		var page []json.RawMessage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode page for %s: %w", endpoint, err)
		}
		items = append(items, page...)
		pages++
	}

	if pages > 1 {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("pages", pages).
			Int("items", len(items)).
			Msg("Pagination complete")
	}

	return json.Marshal(items)
}

// getPage executes one physical GET and drains the response.
func (c *Client) getPage(ctx context.Context, rawURL string) (body []byte, header http.Header, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read response body: %w", err)
	}

	return body, resp.Header, resp.StatusCode, nil
}

// nextLink extracts the "next" link relation from a Link header
// (RFC 8288, as sent by Canvas for cursor-based pagination).
// Returns "" when no next page exists.
func nextLink(header http.Header) string {
	for _, value := range header.Values("Link") {
		for _, part := range strings.Split(value, ",") {
			segments := strings.Split(part, ";")
			if len(segments) < 2 {
				continue
			}

			target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
			if target == "" {
				continue
			}

			for _, param := range segments[1:] {
				param = strings.TrimSpace(param)
				if rel, ok := strings.CutPrefix(param, "rel="); ok {
					if strings.Trim(rel, `"`) == "next" {
						return target
					}
				}
			}
		}
	}
	return ""
}

// isJSONArray reports whether the body's first significant byte opens an array.
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

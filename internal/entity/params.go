package entity

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
)

const CacheTTLDefault = 60 // minutes

// FeedParams represents validated request parameters for feed generation
type FeedParams struct {
	// Format is the feed format, either "atom" or "rss"
	Format string
}

// NewFeedParamsFromRequest parses and validates feed request parameters
func NewFeedParamsFromRequest(r *http.Request) (*FeedParams, error) {
	format := r.URL.Query().Get("format")

	if format == "" {
		format = FormatRSS
	} else if format != FormatRSS && format != FormatAtom {
		return nil, fmt.Errorf("format must be %s or %s", FormatRSS, FormatAtom)
	}

	return &FeedParams{Format: format}, nil
}

// LoadMoreParams represents a validated load-more request
type LoadMoreParams struct {
	// Cursor is the next page URL as returned by the content API
	Cursor string
}

// NewLoadMoreParamsFromRequest parses the cursor query parameter.
// Absolute cursors must point at allowedHost so the endpoint cannot be used
// to fetch arbitrary URLs.
func NewLoadMoreParamsFromRequest(r *http.Request, allowedHost string) (*LoadMoreParams, error) {
	cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

	if cursor == "" {
		return nil, fmt.Errorf("cursor is required")
	}

	u, err := url.Parse(cursor)

	if err != nil {
		return nil, fmt.Errorf("cursor must be a valid URL")
	}

	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("cursor scheme must be http or https")
		}

		if !strings.EqualFold(u.Host, allowedHost) {
			return nil, fmt.Errorf("cursor host %s is not allowed", u.Host)
		}
	} else if u.Host != "" {
		// Scheme-relative URLs like //evil.example/x
		return nil, fmt.Errorf("cursor host %s is not allowed", u.Host)
	}

	return &LoadMoreParams{Cursor: cursor}, nil
}

// Package people describes candidate profiles as returned by a people search
// backend and the contract such a backend has to satisfy.
package people

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	// MinResults and MaxResults bound a single provider call.
	MinResults = 1
	MaxResults = 25
)

// ErrNoResults is returned by a Provider when the query matched nothing.
var ErrNoResults = errors.New("no results found")

// ProfileStub is a raw candidate record. Empty strings mean the provider did
// not return the field. URL is the identity of the profile.
type ProfileStub struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Content       string `json:"content"`
}

// Key returns the case-insensitive identity used for deduplication.
func (p ProfileStub) Key() string {
	return strings.ToLower(strings.TrimSpace(p.URL))
}

// Text joins the non-empty descriptive fields with single spaces.
func (p ProfileStub) Text() string {
	parts := make([]string, 0, 4)
	for _, v := range []string{p.Title, p.Author, p.Summary, p.Content} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// IsLinkedIn reports whether the profile URL points at linkedin.com.
func (p ProfileStub) IsLinkedIn() bool {
	u, err := url.Parse(strings.TrimSpace(p.URL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// SearchRequest is a single provider call.
type SearchRequest struct {
	Query        string
	NumResults   int
	LinkedInOnly bool
}

// ClampResults keeps n within the provider bounds.
func ClampResults(n int) int {
	if n < MinResults {
		return MinResults
	}
	if n > MaxResults {
		return MaxResults
	}
	return n
}

// Provider searches for people matching a free-text query.
type Provider interface {
	Name() string
	Search(ctx context.Context, req SearchRequest) ([]ProfileStub, error)
}

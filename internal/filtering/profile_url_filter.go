package filtering

import (
	"context"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/people"
)

type requireURLFilter struct {
	toggle
}

// NewRequireURL creates a filter that drops profiles without a URL.
func NewRequireURL() Filter {
	return &requireURLFilter{}
}

func (f *requireURLFilter) Name() string { return "require_url" }

func (f *requireURLFilter) Status() Status { return f.status(f.Name()) }

func (f *requireURLFilter) Apply(_ context.Context, profiles []people.ProfileStub) ([]people.ProfileStub, Step, error) {
	out, step := keep(profiles, func(p people.ProfileStub) bool {
		return strings.TrimSpace(p.URL) != ""
	})
	return out, step, nil
}

type linkedInFilter struct {
	toggle
}

// NewLinkedInProfile creates a filter that keeps only linkedin.com profiles.
// It starts disabled when linkedInOnly is false.
func NewLinkedInProfile(linkedInOnly bool) Filter {
	f := &linkedInFilter{}
	if !linkedInOnly {
		f.Disable("non-linkedin sources allowed")
	}
	return f
}

func (f *linkedInFilter) Name() string { return "linkedin_profile" }

func (f *linkedInFilter) Status() Status { return f.status(f.Name()) }

func (f *linkedInFilter) Apply(_ context.Context, profiles []people.ProfileStub) ([]people.ProfileStub, Step, error) {
	out, step := keep(profiles, people.ProfileStub.IsLinkedIn)
	return out, step, nil
}

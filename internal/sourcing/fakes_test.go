package sourcing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/people"
)

// fakeGenerator answers criteria requests with a fixed payload and summary
// requests by echoing the profile title, failing for URLs in failFor.
type fakeGenerator struct {
	mu          sync.Mutex
	criteria    string
	criteriaErr error
	failFor     map[string]bool
	requests    []ai.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	switch req.Name {
	case "search_criteria":
		return f.criteria, f.criteriaErr
	case "candidate_summary":
		msg := req.Turns[len(req.Turns)-1].Content
		title := field(msg, "Title: ")
		if f.failFor[field(msg, "URL: ")] {
			return "", errors.New("model overloaded")
		}
		return fmt.Sprintf(`{"name":%q,"headline":%q,"skillsSummary":"Evidenced skills.","experienceSummary":"Evidenced experience."}`,
			field(msg, "Author: "), title), nil
	default:
		return "", fmt.Errorf("unexpected request %q", req.Name)
	}
}

func (f *fakeGenerator) requestsNamed(name string) []ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ai.Request
	for _, r := range f.requests {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

func field(msg, prefix string) string {
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return ""
}

type providerAnswer struct {
	profiles []people.ProfileStub
	err      error
}

// fakeProvider answers by exact query; unknown queries return no results.
type fakeProvider struct {
	mu      sync.Mutex
	answers map[string]providerAnswer
	calls   []people.SearchRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, req people.SearchRequest) ([]people.ProfileStub, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	a, ok := f.answers[req.Query]
	if !ok {
		return nil, people.ErrNoResults
	}
	return a.profiles, a.err
}

func (f *fakeProvider) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Query)
	}
	return out
}

package sourcing

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literalSearch() SearchConfig {
	return SearchConfig{ResultsPerQuery: 25}
}

func TestSearchMergesByQueryOrder(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q1": {profiles: []people.ProfileStub{
			{Title: "engineer one", URL: "https://www.linkedin.com/in/one"},
			{Title: "engineer two", URL: "https://www.linkedin.com/in/two"},
		}},
		"q2": {profiles: []people.ProfileStub{
			{Title: "engineer three", URL: "https://www.linkedin.com/in/three"},
			{Title: "engineer one again", URL: "https://www.LinkedIn.com/in/ONE"},
		}},
	}}

	step := NewSearchStep(provider, literalSearch(), nil)
	out := step.Search(context.Background(), SearchCriteria{Role: "engineer", LinkedInOnly: true, Queries: []string{"q1", "q2"}}, 3)

	require.Len(t, out.Profiles, 3)
	assert.Equal(t, "engineer one", out.Profiles[0].Title)
	assert.Equal(t, "engineer two", out.Profiles[1].Title)
	assert.Equal(t, "engineer three", out.Profiles[2].Title)
	assert.Empty(t, out.Issues)
	assert.Equal(t, []string{"q1", "q2"}, out.Criteria.Queries)

	for _, call := range provider.calls {
		assert.Equal(t, 25, call.NumResults)
		assert.True(t, call.LinkedInOnly)
	}
}

func TestSearchAllEmptyReportsZeroShortfall(t *testing.T) {
	provider := &fakeProvider{}
	step := NewSearchStep(provider, literalSearch(), nil)

	out := step.Search(context.Background(), SearchCriteria{Role: "welder", Queries: []string{"welders houston"}}, 5)

	assert.Empty(t, out.Profiles)
	require.NotEmpty(t, out.Issues)
	assert.Contains(t, out.Issues, `query "welders houston": no results found`)
	assert.Contains(t, out.Issues, "found 0 of 5 requested candidates")
}

func TestSearchPropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"ok":     {profiles: []people.ProfileStub{{Title: "welder", URL: "https://linkedin.com/in/a"}}},
		"broken": {err: errors.New("bad status: 401 Unauthorized")},
	}}
	step := NewSearchStep(provider, literalSearch(), nil)

	out := step.Search(context.Background(), SearchCriteria{Role: "welder", Queries: []string{"ok", "broken"}}, 1)

	require.Len(t, out.Profiles, 1)
	assert.Equal(t, []string{`query "broken": bad status: 401 Unauthorized`}, out.Issues)
}

func TestSearchDropsProfilesWithoutURLSilently(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q": {profiles: []people.ProfileStub{
			{Title: "welder", URL: ""},
			{Title: "welder", URL: "https://linkedin.com/in/b"},
		}},
	}}
	step := NewSearchStep(provider, literalSearch(), nil)

	out := step.Search(context.Background(), SearchCriteria{Role: "welder", Queries: []string{"q"}}, 1)

	require.Len(t, out.Profiles, 1)
	assert.NotEmpty(t, out.Profiles[0].URL)
	assert.Empty(t, out.Issues)
}

func TestSearchExcludesHiringCompanyEmployees(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q": {profiles: []people.ProfileStub{
			{Title: "SRE at Acme", URL: "https://linkedin.com/in/a"},
			{Title: "SRE at Initech", URL: "https://linkedin.com/in/b"},
		}},
	}}
	step := NewSearchStep(provider, literalSearch(), nil)

	out := step.Search(context.Background(), SearchCriteria{Role: "SRE", HiringCompany: "Acme", Queries: []string{"q"}}, 2)

	require.Len(t, out.Profiles, 1)
	assert.Equal(t, "SRE at Initech", out.Profiles[0].Title)
	assert.Equal(t, []string{"found 1 of 2 requested candidates"}, out.Issues)
}

func TestSearchLinkedInOnlyDropsOtherHosts(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q": {profiles: []people.ProfileStub{
			{Title: "welder", URL: "https://github.com/a"},
			{Title: "welder", URL: "https://linkedin.com/in/b"},
		}},
	}}

	linkedIn := NewSearchStep(provider, literalSearch(), nil).
		Search(context.Background(), SearchCriteria{Role: "welder", LinkedInOnly: true, Queries: []string{"q"}}, 5)
	assert.Len(t, linkedIn.Profiles, 1)

	open := NewSearchStep(provider, literalSearch(), nil).
		Search(context.Background(), SearchCriteria{Role: "welder", Queries: []string{"q"}}, 5)
	assert.Len(t, open.Profiles, 2)
}

func TestSearchRetriesNarrowerVariant(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"welders in Houston": {profiles: []people.ProfileStub{{Title: "Welder", URL: "https://linkedin.com/in/a", Content: "Houston"}}},
	}}
	cfg := literalSearch()
	cfg.RetryVariants = true
	step := NewSearchStep(provider, cfg, nil)

	out := step.Search(context.Background(), SearchCriteria{
		Role:      "welder",
		Locations: []string{"Houston"},
		Queries:   []string{"welders"},
	}, 1)

	assert.Equal(t, []string{"welders", "welders in Houston"}, provider.queries())
	assert.Equal(t, []string{"welders in Houston"}, out.Criteria.Queries)
	require.Len(t, out.Profiles, 1)
	assert.Empty(t, out.Issues)
}

func TestSearchSkipsVariantAlreadyPlanned(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"data engineer in Chicago": {profiles: []people.ProfileStub{{Title: "Data Engineer", URL: "https://linkedin.com/in/a", Content: "Chicago"}}},
	}}
	cfg := literalSearch()
	cfg.RetryVariants = true

	out := NewSearchStep(provider, cfg, nil).Search(context.Background(), SearchCriteria{
		Role:      "data engineer",
		Locations: []string{"Chicago"},
		Queries:   []string{"data engineer", "data engineer in Chicago"},
	}, 1)

	assert.ElementsMatch(t, []string{"data engineer", "data engineer in Chicago"}, provider.queries())
	assert.Equal(t, []string{"data engineer", "data engineer in Chicago"}, out.Criteria.Queries)
	require.Len(t, out.Profiles, 1)
	assert.Equal(t, []string{`query "data engineer": no results found`}, out.Issues)
}

func TestSearchExecutedQueriesStayUnique(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"welders in Houston": {profiles: []people.ProfileStub{{Title: "Welder", URL: "https://linkedin.com/in/a", Content: "Houston"}}},
	}}
	cfg := literalSearch()
	cfg.RetryVariants = true

	out := NewSearchStep(provider, cfg, nil).Search(context.Background(), SearchCriteria{
		Role:      "welder",
		Locations: []string{"Houston"},
		Queries:   []string{"welders", "welders "},
	}, 1)

	assert.Equal(t, []string{"welders in Houston"}, out.Criteria.Queries)
	require.Len(t, out.Profiles, 1)
}

func TestSearchDisabledFilters(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q": {profiles: []people.ProfileStub{
			{Title: "welder", URL: "https://github.com/a"},
			{Title: "welder", URL: "https://linkedin.com/in/b"},
		}},
	}}
	cfg := literalSearch()
	cfg.DisabledFilters = []string{" linkedin_profile ", "unknown"}

	out := NewSearchStep(provider, cfg, nil).
		Search(context.Background(), SearchCriteria{Role: "welder", LinkedInOnly: true, Queries: []string{"q"}}, 5)

	assert.Len(t, out.Profiles, 2)
}

func TestSearchRelevanceFloor(t *testing.T) {
	provider := &fakeProvider{answers: map[string]providerAnswer{
		"q": {profiles: []people.ProfileStub{
			{Title: "Welder", URL: "https://linkedin.com/in/a"},
			{Title: "Pastry chef", URL: "https://linkedin.com/in/b"},
		}},
	}}
	cfg := literalSearch()
	cfg.MinScore = 1

	out := NewSearchStep(provider, cfg, nil).Search(context.Background(), SearchCriteria{Role: "welder", Queries: []string{"q"}}, 2)

	require.Len(t, out.Profiles, 1)
	assert.Equal(t, []string{"found 1 of 2 requested candidates"}, out.Issues)
}

func TestNarrowVariant(t *testing.T) {
	c := SearchCriteria{Locations: []string{"Chicago"}, Companies: []string{"Stripe"}, Seniority: "Staff"}

	assert.Equal(t, "data engineer in Chicago", narrowVariant("data engineer", c))
	assert.Equal(t, "data engineer chicago at Stripe", narrowVariant("data engineer chicago", c))
	assert.Equal(t, "Staff data engineer chicago stripe", narrowVariant("data engineer chicago stripe", c))
	assert.Equal(t, "", narrowVariant("staff data engineer chicago stripe", c))
}

func TestNarrowVariantMatchesWholeWords(t *testing.T) {
	assert.Equal(t, "Senior engineers with seniority",
		narrowVariant("engineers with seniority", SearchCriteria{Seniority: "Senior"}))
	assert.Equal(t, "engineers in Yorkshire in York",
		narrowVariant("engineers in Yorkshire", SearchCriteria{Locations: []string{"York"}}))
}

func TestNewSearchStepClampsConfig(t *testing.T) {
	step := NewSearchStep(&fakeProvider{}, SearchConfig{ResultsPerQuery: 500, MinScore: -3}, nil)
	assert.Equal(t, 25, step.cfg.ResultsPerQuery)
	assert.Equal(t, 0, step.cfg.MinScore)
}

package sourcing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaStepDerive(t *testing.T) {
	gen := &fakeGenerator{criteria: `{
		"role": " Data Engineer ",
		"companies": ["Stripe", " "],
		"locations": ["Chicago"],
		"seniority": "Staff",
		"linkedinOnly": true,
		"hiringCompany": null,
		"skills": [],
		"queries": ["Staff Data Engineer at Stripe in Chicago", "Staff Data Engineer at Stripe in Chicago", " ", "Staff Data Engineer fintech Chicago", "Data Engineer Chicago", "extra"]
	}`}

	step := NewCriteriaStep(gen, nil)
	c, err := step.Derive(context.Background(), CriteriaInput{Request: "Find 3 Staff Data Engineers", MaxCandidates: 3})
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer", c.Role)
	assert.Equal(t, []string{"Stripe"}, c.Companies)
	assert.Equal(t, "Staff", c.Seniority)
	assert.Empty(t, c.HiringCompany)
	assert.Equal(t, []string{
		"Staff Data Engineer at Stripe in Chicago",
		"Staff Data Engineer fintech Chicago",
		"Data Engineer Chicago",
	}, c.Queries)

	reqs := gen.requestsNamed("search_criteria")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].System, "up to 3 candidates")
	assert.NotContains(t, reqs[0].System, "{{")
}

func TestCriteriaStepFallsBackToRequest(t *testing.T) {
	gen := &fakeGenerator{criteria: `{"role":"Welder","companies":[],"locations":[],"seniority":null,"linkedinOnly":true,"queries":["  "]}`}

	c, err := NewCriteriaStep(gen, nil).Derive(context.Background(), CriteriaInput{Request: "  certified pipe welders  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"certified pipe welders"}, c.Queries)
	assert.Empty(t, c.Seniority)
}

func TestCriteriaStepExplicitHiringCompanyWins(t *testing.T) {
	gen := &fakeGenerator{criteria: `{"role":"SRE","companies":[],"locations":[],"seniority":null,"linkedinOnly":true,"hiringCompany":"Initech","queries":["SRE"]}`}

	c, err := NewCriteriaStep(gen, nil).Derive(context.Background(), CriteriaInput{Request: "SRE", HiringCompany: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.HiringCompany)
}

func TestCriteriaStepErrors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		request string
	}{
		{name: "generator error", gen: &fakeGenerator{criteriaErr: errors.New("quota exceeded")}, request: "welders"},
		{name: "missing role", gen: &fakeGenerator{criteria: `{"companies":[],"locations":[],"seniority":null,"linkedinOnly":true,"queries":["x"]}`}, request: "welders"},
		{name: "blank role", gen: &fakeGenerator{criteria: `{"role":" ","companies":[],"locations":[],"seniority":null,"linkedinOnly":true,"queries":["x"]}`}, request: "welders"},
		{name: "not json", gen: &fakeGenerator{criteria: `sorry, I cannot help`}, request: "welders"},
		{name: "empty request", gen: &fakeGenerator{}, request: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCriteriaStep(tt.gen, nil).Derive(context.Background(), CriteriaInput{Request: tt.request})
			var cge *CriteriaGenerationError
			require.True(t, errors.As(err, &cge), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), "criteria generation failed"))
		})
	}
}

func TestConversationAppendsRequestOnce(t *testing.T) {
	history := []ai.Turn{
		{Role: ai.RoleUser, Content: "need welders"},
		{Role: ai.RoleAssistant, Content: "Where?"},
		{Role: ai.RoleUser, Content: "Houston"},
	}

	assert.Len(t, conversation(history, "Houston"), 3)

	turns := conversation(history, "and Dallas")
	require.Len(t, turns, 4)
	assert.Equal(t, ai.Turn{Role: ai.RoleUser, Content: "and Dallas"}, turns[3])

	assert.Len(t, conversation(nil, "welders"), 1)
}

func TestCriteriaView(t *testing.T) {
	v := SearchCriteria{Role: "SRE", Queries: []string{"SRE"}}.View()
	assert.Nil(t, v.Seniority)
	assert.Equal(t, []string{}, v.Companies)
	assert.Equal(t, []string{}, v.Locations)

	v = SearchCriteria{Role: "SRE", Seniority: "Senior"}.View()
	require.NotNil(t, v.Seniority)
	assert.Equal(t, "Senior", *v.Seniority)
}

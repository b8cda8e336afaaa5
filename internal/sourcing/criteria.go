package sourcing

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/ai"
	"go.uber.org/zap"
)

//go:embed prompts/criteria.md
var criteriaPrompt string

// SearchCriteria is the structured search intent derived from a request.
// Queries hold 1..3 entries and are rewritten by the search step to what was
// actually executed.
type SearchCriteria struct {
	Role          string
	Companies     []string
	Locations     []string
	Seniority     string
	LinkedInOnly  bool
	HiringCompany string
	Skills        []string
	Queries       []string
}

// CriteriaView is the criteria as reported back to callers.
type CriteriaView struct {
	Role          string   `json:"role" yaml:"role"`
	Companies     []string `json:"companies" yaml:"companies"`
	Locations     []string `json:"locations" yaml:"locations"`
	Seniority     *string  `json:"seniority" yaml:"seniority"`
	LinkedInOnly  bool     `json:"linkedinOnly" yaml:"linkedinOnly"`
	HiringCompany string   `json:"hiringCompany,omitempty" yaml:"hiringCompany,omitempty"`
	Skills        []string `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// View drops the queries and turns an absent seniority into null.
func (c SearchCriteria) View() CriteriaView {
	v := CriteriaView{
		Role:          c.Role,
		Companies:     nonNil(c.Companies),
		Locations:     nonNil(c.Locations),
		LinkedInOnly:  c.LinkedInOnly,
		HiringCompany: c.HiringCompany,
		Skills:        c.Skills,
	}
	if c.Seniority != "" {
		s := c.Seniority
		v.Seniority = &s
	}
	return v
}

// CriteriaGenerationError aborts a run: nothing downstream works without criteria.
type CriteriaGenerationError struct {
	Err error
}

func (e *CriteriaGenerationError) Error() string {
	return fmt.Sprintf("criteria generation failed: %v", e.Err)
}

func (e *CriteriaGenerationError) Unwrap() error { return e.Err }

// CriteriaInput is what the criteria step works from.
type CriteriaInput struct {
	Request       string
	History       []ai.Turn
	MaxCandidates int
	// HiringCompany overrides whatever the model extracted when set.
	HiringCompany string
}

type criteriaOutput struct {
	Role          string   `json:"role"`
	Companies     []string `json:"companies"`
	Locations     []string `json:"locations"`
	Seniority     *string  `json:"seniority"`
	LinkedInOnly  bool     `json:"linkedinOnly"`
	HiringCompany *string  `json:"hiringCompany"`
	Skills        []string `json:"skills"`
	Queries       []string `json:"queries"`
}

var stringList = &ai.Schema{Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}}

var criteriaSchema = &ai.Schema{
	Type:     ai.TypeObject,
	Required: []string{"role", "companies", "locations", "seniority", "linkedinOnly", "queries"},
	Properties: map[string]*ai.Schema{
		"role":          {Type: ai.TypeString, NonEmpty: true, Description: "Job title being hired for"},
		"companies":     stringList,
		"locations":     stringList,
		"seniority":     {Type: ai.TypeString, Nullable: true},
		"linkedinOnly":  {Type: ai.TypeBoolean},
		"hiringCompany": {Type: ai.TypeString, Nullable: true},
		"skills":        stringList,
		"queries":       {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}, Description: "2 or 3 search queries"},
	},
}

// CriteriaStep derives SearchCriteria with a structured generator.
type CriteriaStep struct {
	generator ai.StructuredGenerator
	logger    *zap.Logger
}

func NewCriteriaStep(generator ai.StructuredGenerator, logger *zap.Logger) *CriteriaStep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CriteriaStep{generator: generator, logger: logger}
}

// Derive returns criteria or a *CriteriaGenerationError.
func (s *CriteriaStep) Derive(ctx context.Context, in CriteriaInput) (SearchCriteria, error) {
	request := strings.TrimSpace(in.Request)
	if request == "" {
		return SearchCriteria{}, &CriteriaGenerationError{Err: errors.New("request must not be empty")}
	}

	req := ai.Request{
		Name:   "search_criteria",
		System: strings.ReplaceAll(criteriaPrompt, "{{MAX_CANDIDATES}}", strconv.Itoa(in.MaxCandidates)),
		Turns:  conversation(in.History, request),
		Schema: criteriaSchema,
	}

	var out criteriaOutput
	if err := ai.GenerateInto(ctx, s.generator, req, &out); err != nil {
		return SearchCriteria{}, &CriteriaGenerationError{Err: err}
	}

	criteria := SearchCriteria{
		Role:          strings.TrimSpace(out.Role),
		Companies:     cleanList(out.Companies),
		Locations:     cleanList(out.Locations),
		Seniority:     deref(out.Seniority),
		LinkedInOnly:  out.LinkedInOnly,
		HiringCompany: deref(out.HiringCompany),
		Skills:        cleanList(out.Skills),
		Queries:       NormalizeQueries(out.Queries),
	}

	if hc := strings.TrimSpace(in.HiringCompany); hc != "" {
		criteria.HiringCompany = hc
	}

	if len(criteria.Queries) == 0 {
		s.logger.Warn("no usable queries generated, searching with the request itself")
		criteria.Queries = []string{request}
	}

	s.logger.Info("criteria derived",
		zap.String("role", criteria.Role),
		zap.Strings("companies", criteria.Companies),
		zap.Strings("locations", criteria.Locations),
		zap.String("seniority", criteria.Seniority),
		zap.Bool("linkedin_only", criteria.LinkedInOnly),
		zap.Strings("queries", criteria.Queries),
	)

	return criteria, nil
}

// conversation appends the request as the final user turn unless history already ends with it.
func conversation(history []ai.Turn, request string) []ai.Turn {
	turns := ai.CleanTurns(history)
	if n := len(turns); n > 0 && turns[n-1].Role == ai.RoleUser && turns[n-1].Content == request {
		return turns
	}
	return append(turns, ai.Turn{Role: ai.RoleUser, Content: request})
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

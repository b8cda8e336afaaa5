package sourcing

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/filtering"
	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/spigell/candidate-sourcer/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchConfig tunes the candidate search step.
type SearchConfig struct {
	// ResultsPerQuery is requested from the provider on every call, clamped to 1..25.
	ResultsPerQuery int
	// RetryVariants retries a failed or empty query once with a narrower variant.
	RetryVariants bool
	// MinScore drops profiles scoring below it. Zero keeps every profile.
	MinScore int
	// DisabledFilters names post-search filters to skip, e.g. "linkedin_profile".
	DisabledFilters []string
}

// DefaultSearchConfig asks for the provider maximum and drops zero-overlap profiles.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{ResultsPerQuery: people.MaxResults, RetryVariants: true, MinScore: 1}
}

// SearchOutcome is what the search step hands to summarization.
type SearchOutcome struct {
	// Criteria carries the queries as executed.
	Criteria SearchCriteria
	Profiles []ScoredProfile
	// Issues are human readable problems, empty when everything went fine.
	Issues []string
}

// SearchStep fans queries out to a people search provider and ranks the merged results.
type SearchStep struct {
	provider people.Provider
	cfg      SearchConfig
	logger   *zap.Logger
}

func NewSearchStep(provider people.Provider, cfg SearchConfig, logger *zap.Logger) *SearchStep {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultsPerQuery <= 0 {
		cfg.ResultsPerQuery = people.MaxResults
	}
	cfg.ResultsPerQuery = people.ClampResults(cfg.ResultsPerQuery)
	if cfg.MinScore < 0 {
		cfg.MinScore = 0
	}
	return &SearchStep{provider: provider, cfg: cfg, logger: logger}
}

type querySlot struct {
	executed string
	profiles []people.ProfileStub
	failures []string
}

// Search never fails: provider errors and shortfalls become Issues.
func (s *SearchStep) Search(ctx context.Context, criteria SearchCriteria, maxCandidates int) SearchOutcome {
	queries := criteria.Queries
	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}

	slots := make([]querySlot, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			slots[i] = s.runQuery(ctx, q, queries, criteria)
			return nil
		})
	}
	g.Wait()

	var (
		merged   []people.ProfileStub
		executed = make([]string, 0, len(slots))
		issues   []string
	)
	for _, slot := range slots {
		executed = append(executed, slot.executed)
		merged = append(merged, slot.profiles...)
		if len(slot.profiles) == 0 {
			issues = append(issues, slot.failures...)
		}
	}

	executed = NormalizeQueries(executed)

	steps := s.filters(criteria)
	s.logger.Debug("filters", zap.Any("steps", filtering.Describe(steps)))

	filtered, err := filtering.Run(ctx, s.logger, steps, merged)
	if err != nil {
		issues = append(issues, fmt.Sprintf("filtering profiles: %v", err))
		filtered = nil
	}

	ranked := rank(filtered, TermsFrom(criteria), maxCandidates, s.cfg.MinScore)

	if len(ranked) < maxCandidates {
		issues = append(issues, fmt.Sprintf("found %d of %d requested candidates", len(ranked), maxCandidates))
	}

	s.logger.Info("candidate search finished",
		zap.Strings("queries", executed),
		zap.Int("merged", len(merged)),
		zap.Int("filtered", len(filtered)),
		zap.Int("ranked", len(ranked)),
		zap.Int("requested", maxCandidates),
	)

	criteria.Queries = executed
	return SearchOutcome{Criteria: criteria, Profiles: ranked, Issues: issues}
}

func (s *SearchStep) filters(criteria SearchCriteria) []filtering.Filter {
	steps := []filtering.Filter{
		filtering.NewRequireURL(),
		filtering.NewLinkedInProfile(criteria.LinkedInOnly),
		filtering.NewHiringCompany(criteria.HiringCompany),
	}
	for _, name := range s.cfg.DisabledFilters {
		filtering.DisableByName(steps, strings.TrimSpace(name), "disabled in config")
	}
	return steps
}

// runQuery searches query and, when that yields nothing, one narrower variant
// that is not already among the planned queries.
func (s *SearchStep) runQuery(ctx context.Context, query string, planned []string, criteria SearchCriteria) querySlot {
	slot := querySlot{executed: query}

	profiles, err := s.search(ctx, query, criteria.LinkedInOnly)
	if err == nil {
		slot.profiles = profiles
		return slot
	}
	slot.failures = append(slot.failures, fmt.Sprintf("query %q: %v", query, err))

	if !s.cfg.RetryVariants || ctx.Err() != nil {
		return slot
	}

	variant := narrowVariant(query, criteria)
	alreadyPlanned := func(p string) bool { return strings.EqualFold(strings.TrimSpace(p), variant) }
	if variant == "" || slices.ContainsFunc(planned, alreadyPlanned) {
		return slot
	}

	s.logger.Info("retrying with narrower query", zap.String("query", query), zap.String("variant", variant))

	slot.executed = variant
	profiles, err = s.search(ctx, variant, criteria.LinkedInOnly)
	if err != nil {
		slot.failures = append(slot.failures, fmt.Sprintf("query %q: %v", variant, err))
		return slot
	}
	slot.profiles = profiles
	return slot
}

func (s *SearchStep) search(ctx context.Context, query string, linkedInOnly bool) ([]people.ProfileStub, error) {
	profiles, err := s.provider.Search(ctx, people.SearchRequest{
		Query:        query,
		NumResults:   s.cfg.ResultsPerQuery,
		LinkedInOnly: linkedInOnly,
	})
	if err == nil && len(profiles) == 0 {
		err = people.ErrNoResults
	}
	if err != nil {
		s.logger.Warn("people search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("people search returned", zap.String("query", query), zap.Int("results", len(profiles)))
	return profiles, nil
}

// narrowVariant adds the first criteria detail the query does not mention yet:
// a location, then a company, then the seniority.
func narrowVariant(query string, c SearchCriteria) string {
	mentions := func(s string) bool { return utils.ContainsPhrase(query, s) }

	for _, loc := range c.Locations {
		if !mentions(loc) {
			return query + " in " + loc
		}
	}
	for _, co := range c.Companies {
		if !mentions(co) {
			return query + " at " + co
		}
	}
	if c.Seniority != "" && !mentions(c.Seniority) {
		return c.Seniority + " " + query
	}
	return ""
}

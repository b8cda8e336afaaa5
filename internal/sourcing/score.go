package sourcing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/people"
)

const (
	roleWeight     = 2
	companyWeight  = 2
	locationWeight = 1

	// minTokenLen excludes short tokens such as "AI" or "ML" from role matching.
	minTokenLen = 3
)

var tokenSeparator = regexp.MustCompile(`[^a-z0-9+.#-]+`)

// ScoreTerms are the criteria fields scoring looks for.
type ScoreTerms struct {
	Role      string
	Companies []string
	Locations []string
}

// TermsFrom extracts the scoring terms from criteria.
func TermsFrom(c SearchCriteria) ScoreTerms {
	return ScoreTerms{Role: c.Role, Companies: c.Companies, Locations: c.Locations}
}

// ScoredProfile is a profile with its relevance score.
type ScoredProfile struct {
	people.ProfileStub
	Score int `json:"score"`
}

// Tokenize lowercases role and splits it into tokens of at least three characters.
func Tokenize(role string) []string {
	parts := tokenSeparator.Split(strings.ToLower(role), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= minTokenLen {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Score counts role tokens, companies and locations present in the profile text.
func Score(p people.ProfileStub, terms ScoreTerms) int {
	haystack := strings.ToLower(p.Text())

	return roleWeight*countMatches(haystack, Tokenize(terms.Role)) +
		companyWeight*countMatches(haystack, terms.Companies) +
		locationWeight*countMatches(haystack, terms.Locations)
}

func countMatches(haystack string, targets []string) int {
	n := 0
	for _, t := range targets {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(haystack, t) {
			n++
		}
	}
	return n
}

// DedupAndRank removes URL duplicates, scores and sorts profiles by score and
// truncates to maxCandidates.
func DedupAndRank(profiles []people.ProfileStub, terms ScoreTerms, maxCandidates int) []ScoredProfile {
	return rank(profiles, terms, maxCandidates, 0)
}

// rank is DedupAndRank with a relevance floor applied before truncation.
func rank(profiles []people.ProfileStub, terms ScoreTerms, maxCandidates, minScore int) []ScoredProfile {
	seen := make(map[string]struct{}, len(profiles))
	scored := make([]ScoredProfile, 0, len(profiles))

	for _, p := range profiles {
		key := p.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		s := Score(p, terms)
		if s < minScore {
			continue
		}
		scored = append(scored, ScoredProfile{ProfileStub: p, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if maxCandidates >= 0 && len(scored) > maxCandidates {
		scored = scored[:maxCandidates]
	}
	return scored
}

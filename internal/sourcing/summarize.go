package sourcing

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed prompts/summary.md
var summaryPrompt string

const (
	defaultSummaryConcurrency = 4
	defaultContentRunes       = 3000
	fallbackExperienceRunes   = 200

	unknownCandidate  = "Unknown candidate"
	noHeadline        = "No headline available"
	limitedSkills     = "Limited data available to infer key skills."
	limitedExperience = "Limited profile detail available."
)

// CandidateSummary is the recruiter-facing card for one profile.
type CandidateSummary struct {
	Name              string `json:"name" yaml:"name"`
	Headline          string `json:"headline" yaml:"headline"`
	SkillsSummary     string `json:"skillsSummary" yaml:"skillsSummary"`
	ExperienceSummary string `json:"experienceSummary" yaml:"experienceSummary"`
	LinkedInURL       string `json:"linkedinUrl" yaml:"linkedinUrl"`
}

// SummaryKind tags how a summary was produced.
type SummaryKind int

const (
	Summarized SummaryKind = iota
	FallbackSummarized
)

func (k SummaryKind) String() string {
	if k == FallbackSummarized {
		return "fallback"
	}
	return "summarized"
}

// SummaryOutcome is one summarization slot.
type SummaryOutcome struct {
	Kind    SummaryKind
	Summary CandidateSummary
	// Err is set for FallbackSummarized outcomes.
	Err error
}

// SummaryConfig tunes the summarization step.
type SummaryConfig struct {
	Concurrency  int
	ContentRunes int
}

type summaryOutput struct {
	Name              string `json:"name"`
	Headline          string `json:"headline"`
	SkillsSummary     string `json:"skillsSummary"`
	ExperienceSummary string `json:"experienceSummary"`
}

var summarySchema = &ai.Schema{
	Type:     ai.TypeObject,
	Required: []string{"name", "headline", "skillsSummary", "experienceSummary"},
	Properties: map[string]*ai.Schema{
		"name":              {Type: ai.TypeString, NonEmpty: true},
		"headline":          {Type: ai.TypeString, NonEmpty: true},
		"skillsSummary":     {Type: ai.TypeString, NonEmpty: true},
		"experienceSummary": {Type: ai.TypeString, NonEmpty: true},
	},
}

// SummarizeStep turns ranked profiles into candidate summaries.
type SummarizeStep struct {
	generator ai.StructuredGenerator
	cfg       SummaryConfig
	logger    *zap.Logger
}

func NewSummarizeStep(generator ai.StructuredGenerator, cfg SummaryConfig, logger *zap.Logger) *SummarizeStep {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultSummaryConcurrency
	}
	if cfg.ContentRunes <= 0 {
		cfg.ContentRunes = defaultContentRunes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummarizeStep{generator: generator, cfg: cfg, logger: logger}
}

// Summarize returns one outcome per profile, in input order. A failing
// profile falls back to a summary built from its own fields.
func (s *SummarizeStep) Summarize(ctx context.Context, role string, profiles []ScoredProfile) []SummaryOutcome {
	outcomes := make([]SummaryOutcome, len(profiles))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, p := range profiles {
		g.Go(func() error {
			outcomes[i] = s.summarizeOne(ctx, role, p)
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func (s *SummarizeStep) summarizeOne(ctx context.Context, role string, p ScoredProfile) SummaryOutcome {
	req := ai.Request{
		Name:   "candidate_summary",
		System: strings.ReplaceAll(summaryPrompt, "{{ROLE}}", utils.FirstNonEmpty(role, "not specified")),
		Turns:  []ai.Turn{{Role: ai.RoleUser, Content: s.profileMessage(p)}},
		Schema: summarySchema,
	}

	var out summaryOutput
	if err := ai.GenerateInto(ctx, s.generator, req, &out); err != nil {
		s.logger.Warn("summary generation failed, using profile fields",
			zap.String("url", p.URL),
			zap.Error(err),
		)
		return SummaryOutcome{Kind: FallbackSummarized, Summary: FallbackSummary(p), Err: err}
	}

	return SummaryOutcome{
		Kind: Summarized,
		Summary: CandidateSummary{
			Name:              strings.TrimSpace(out.Name),
			Headline:          strings.TrimSpace(out.Headline),
			SkillsSummary:     strings.TrimSpace(out.SkillsSummary),
			ExperienceSummary: strings.TrimSpace(out.ExperienceSummary),
			LinkedInURL:       p.URL,
		},
	}
}

func (s *SummarizeStep) profileMessage(p ScoredProfile) string {
	content, cut := utils.RunePrefix(p.Content, s.cfg.ContentRunes)
	if cut {
		content += "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Author: %s\n", utils.FirstNonEmpty(p.Author, "unknown"))
	fmt.Fprintf(&b, "URL: %s\n", p.URL)
	fmt.Fprintf(&b, "Summary: %s\n", utils.FirstNonEmpty(p.Summary, "none"))
	fmt.Fprintf(&b, "Content:\n%s", content)
	return b.String()
}

// FallbackSummary builds a summary from the profile's own fields only.
func FallbackSummary(p ScoredProfile) CandidateSummary {
	experience := limitedExperience
	if content := strings.TrimSpace(p.Content); content != "" {
		prefix, cut := utils.RunePrefix(content, fallbackExperienceRunes)
		experience = prefix
		if cut {
			experience += "..."
		}
	}

	return CandidateSummary{
		Name:              utils.FirstNonEmpty(p.Author, p.Title, unknownCandidate),
		Headline:          utils.FirstNonEmpty(p.Title, noHeadline),
		SkillsSummary:     utils.FirstNonEmpty(p.Summary, limitedSkills),
		ExperienceSummary: experience,
		LinkedInURL:       p.URL,
	}
}

// Package sourcing implements the recruiter sourcing workflow: derive search
// criteria from a request, search and rank people, then summarize them.
package sourcing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/logger"
	"github.com/spigell/candidate-sourcer/internal/people"
	"go.uber.org/zap"
)

// Stage is a workflow state.
type Stage string

const (
	StageDefiningCriteria    Stage = "defining_criteria"
	StageSearchingCandidates Stage = "searching_candidates"
	StageSummarizing         Stage = "summarizing"
	StageDone                Stage = "done"
)

const (
	DefaultMaxCandidates = 5
	MinCandidates        = 1
	MaxCandidates        = 20
)

// ClampCandidates applies def to unset values and keeps n within 1..20.
func ClampCandidates(n, def int) int {
	if n == 0 {
		n = def
	}
	if n < MinCandidates {
		return MinCandidates
	}
	if n > MaxCandidates {
		return MaxCandidates
	}
	return n
}

// Input is one workflow call. History is the conversation so far, owned by the caller.
type Input struct {
	Request       string
	MaxCandidates int
	History       []ai.Turn
	HiringCompany string
}

// Result is the only artifact of a finished run.
type Result struct {
	Criteria   CriteriaView       `json:"criteria" yaml:"criteria"`
	Queries    []string           `json:"queries" yaml:"queries"`
	Error      *string            `json:"error" yaml:"error"`
	Candidates []CandidateSummary `json:"candidates" yaml:"candidates"`
}

// StageError reports the stage a run stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options configure a Workflow.
type Options struct {
	Search               SearchConfig
	Summary              SummaryConfig
	DefaultMaxCandidates int
}

// Workflow wires the three steps together.
type Workflow struct {
	criteria  *CriteriaStep
	search    *SearchStep
	summarize *SummarizeStep

	defaultMax int
	logger     *zap.Logger
	newRunID   func() string
}

type runState struct {
	stage         Stage
	maxCandidates int
	criteria      SearchCriteria
	search        SearchOutcome
	outcomes      []SummaryOutcome
}

func New(generator ai.StructuredGenerator, provider people.Provider, opts Options, log *zap.Logger) *Workflow {
	if log == nil {
		log = zap.NewNop()
	}
	def := opts.DefaultMaxCandidates
	if def <= 0 {
		def = DefaultMaxCandidates
	}

	return &Workflow{
		criteria:   NewCriteriaStep(generator, logger.WithStage(log, string(StageDefiningCriteria))),
		search:     NewSearchStep(provider, opts.Search, logger.WithStage(log, string(StageSearchingCandidates))),
		summarize:  NewSummarizeStep(generator, opts.Summary, logger.WithStage(log, string(StageSummarizing))),
		defaultMax: def,
		logger:     log,
		newRunID:   uuid.NewString,
	}
}

// Run executes the workflow. An error means the run did not reach StageDone
// and no result is available.
func (w *Workflow) Run(ctx context.Context, in Input) (*Result, error) {
	runID := w.newRunID()
	log := logger.WithRun(w.logger, runID)

	st := &runState{
		stage:         StageDefiningCriteria,
		maxCandidates: ClampCandidates(in.MaxCandidates, w.defaultMax),
	}

	log.Info("starting sourcing run",
		zap.Int("max_candidates", st.maxCandidates),
		zap.Int("history_turns", len(in.History)),
	)

	for st.stage != StageDone {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: st.stage, Err: err}
		}

		log.Debug("entering stage", zap.String(logger.FieldStage, string(st.stage)))

		switch st.stage {
		case StageDefiningCriteria:
			criteria, err := w.criteria.Derive(ctx, CriteriaInput{
				Request:       in.Request,
				History:       in.History,
				MaxCandidates: st.maxCandidates,
				HiringCompany: in.HiringCompany,
			})
			if err != nil {
				log.Error("sourcing run failed", zap.String(logger.FieldStage, string(st.stage)), zap.Error(err))
				return nil, &StageError{Stage: st.stage, Err: err}
			}
			st.criteria = criteria
			st.stage = StageSearchingCandidates

		case StageSearchingCandidates:
			st.search = w.search.Search(ctx, st.criteria, st.maxCandidates)
			st.stage = StageSummarizing

		case StageSummarizing:
			st.outcomes = w.summarize.Summarize(ctx, st.search.Criteria.Role, st.search.Profiles)
			st.stage = StageDone
		}
	}

	result := st.result()

	log.Info("sourcing run finished",
		zap.Int("candidates", len(result.Candidates)),
		zap.Bool("degraded", result.Error != nil),
	)

	return result, nil
}

func (st *runState) result() *Result {
	issues := append([]string(nil), st.search.Issues...)

	candidates := make([]CandidateSummary, 0, len(st.outcomes))
	fallbacks := 0
	for _, o := range st.outcomes {
		if o.Kind == FallbackSummarized {
			fallbacks++
		}
		candidates = append(candidates, o.Summary)
	}
	if fallbacks > 0 {
		issues = append(issues, fmt.Sprintf("summaries for %d candidates were built from raw profile data", fallbacks))
	}

	var errText *string
	if len(issues) > 0 {
		joined := strings.Join(issues, "; ")
		errText = &joined
	}

	queries := st.search.Criteria.Queries
	if queries == nil {
		queries = []string{}
	}

	return &Result{
		Criteria:   st.search.Criteria.View(),
		Queries:    queries,
		Error:      errText,
		Candidates: candidates,
	}
}

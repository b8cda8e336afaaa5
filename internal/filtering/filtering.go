// Package filtering holds the post-search pipeline that drops profiles which
// cannot be presented as candidates.
package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/candidate-sourcer/internal/people"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to profiles.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, profiles []people.ProfileStub) ([]people.ProfileStub, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) status(name string) Status {
	return Status{Name: name, Enabled: !t.disabled, Reason: t.reason}
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, profiles []people.ProfileStub) ([]people.ProfileStub, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			fields := []zap.Field{zap.String("name", step.Name())}
			if reporter, ok := step.(statusProvider); ok && reporter.Status().Reason != "" {
				fields = append(fields, zap.String("reason", reporter.Status().Reason))
			}
			logger.Debug("filter disabled", fields...)
			continue
		}

		next, info, err := step.Apply(ctx, profiles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		profiles = next
	}

	return profiles, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the profiles for which pred holds along with step counters.
func keep(profiles []people.ProfileStub, pred func(people.ProfileStub) bool) ([]people.ProfileStub, Step) {
	out := make([]people.ProfileStub, 0, len(profiles))
	for _, p := range profiles {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out, Step{Initial: len(profiles), Dropped: len(profiles) - len(out), Left: len(out)}
}

// Package shortlist narrows a ranked batch down to the candidates worth a look.
package shortlist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

// Filter represents a single filtering step applied to ranked results.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, results []screening.Result) ([]screening.Result, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Spec   keywords.Spec
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the settings consumed by the filters.
type Config struct {
	MinimumPercentage  int    `mapstructure:"minimum-percentage"`
	RequireAllMustHave bool   `mapstructure:"require-all-must-have"`
	ExcludeFile        string `mapstructure:"exclude-file"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns every known filter. Filters without configuration are disabled.
func Default(cfg *Config) []Filter {
	if cfg == nil {
		cfg = &Config{}
	}

	steps := []Filter{
		NewFailed(),
		NewMinimumPercentage(),
		NewMustHaveCoverage(),
		NewExcludeFile(),
	}

	if cfg.MinimumPercentage <= 0 {
		DisableByName(steps, minimumPercentageName, "minimum percentage is not set")
	}
	if !cfg.RequireAllMustHave {
		DisableByName(steps, mustHaveCoverageName, "not requested")
	}
	if cfg.ExcludeFile == "" {
		DisableByName(steps, excludeFileName, "exclude file is not set")
	}

	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run applies the enabled filters in order to a copy of the batch results.
// The batch itself is left untouched.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, batch *screening.Batch) ([]screening.Result, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	results := append([]screening.Result(nil), batch.Results...)

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, results)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		results = next
	}

	return results, nil
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

// keep returns the results accepted by fn together with the dropped file names.
func keep(results []screening.Result, fn func(screening.Result) bool) ([]screening.Result, []string) {
	kept := make([]screening.Result, 0, len(results))
	dropped := make([]string, 0)
	for _, r := range results {
		if fn(r) {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.FileName)
	}
	return kept, dropped
}

// toggle carries the enabled state shared by all filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

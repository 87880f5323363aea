package shortlist

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const (
	failedName            = "failed"
	minimumPercentageName = "minimum_percentage"
	mustHaveCoverageName  = "must_have_coverage"
)

type failedFilter struct {
	toggle
}

// NewFailed creates a filter that removes documents that could not be scored.
func NewFailed() Filter {
	return &failedFilter{}
}

func (f *failedFilter) Name() string { return failedName }

func (f *failedFilter) Validate(*Config) error { return nil }

func (f *failedFilter) Apply(_ context.Context, deps Deps, results []screening.Result) ([]screening.Result, Step, error) {
	kept, dropped := keep(results, screening.Result.Success)
	if len(dropped) > 0 {
		deps.Logger.Info("excluding documents that failed to score",
			zap.Strings("excluded_documents", dropped),
			zap.Int("documents_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(results), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *failedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type minimumPercentageFilter struct {
	toggle
	minimum int
}

// NewMinimumPercentage creates a filter that removes documents below the configured match percentage.
func NewMinimumPercentage() Filter {
	return &minimumPercentageFilter{}
}

func (f *minimumPercentageFilter) Name() string { return minimumPercentageName }

func (f *minimumPercentageFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumPercentage
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum percentage must be within 0..100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumPercentageFilter) Apply(_ context.Context, deps Deps, results []screening.Result) ([]screening.Result, Step, error) {
	kept, dropped := keep(results, func(r screening.Result) bool {
		return r.Success() && r.Percentage() >= f.minimum
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding documents below minimum percentage",
			zap.Int("minimum_percentage", f.minimum),
			zap.Strings("excluded_documents", dropped),
			zap.Int("documents_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(results), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *minimumPercentageFilter) Status() Status {
	details := map[string]string{}
	if f.minimum > 0 {
		details["minimum_percentage"] = strconv.Itoa(f.minimum)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type mustHaveCoverageFilter struct {
	toggle
}

// NewMustHaveCoverage creates a filter that keeps only documents matching every must-have skill.
func NewMustHaveCoverage() Filter {
	return &mustHaveCoverageFilter{}
}

func (f *mustHaveCoverageFilter) Name() string { return mustHaveCoverageName }

func (f *mustHaveCoverageFilter) Validate(*Config) error { return nil }

func (f *mustHaveCoverageFilter) Apply(_ context.Context, deps Deps, results []screening.Result) ([]screening.Result, Step, error) {
	kept, dropped := keep(results, func(r screening.Result) bool {
		if !r.Success() {
			return false
		}

		matched := make(map[string]struct{}, len(r.Record.MatchedMustHave))
		for _, skill := range r.Record.MatchedMustHave {
			matched[skill] = struct{}{}
		}

		for _, skill := range deps.Spec.MustHave {
			if _, ok := matched[skill]; !ok {
				return false
			}
		}
		return true
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding documents missing must-have skills",
			zap.Strings("excluded_documents", dropped),
			zap.Int("documents_left", len(kept)),
		)
	}

	return kept, Step{Initial: len(results), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *mustHaveCoverageFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

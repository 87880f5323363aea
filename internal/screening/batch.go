// Package screening scores a batch of résumés and ranks them.
package screening

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NoBugNinja/Skill-Sync/internal/analyzer"
	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/logger"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

// Batch is the ranked outcome of one run. A new run produces a new Batch.
type Batch struct {
	RunID    string        `json:"runId"`
	Keywords keywords.Spec `json:"keywords"`
	Results  []Result      `json:"results"`
	// Summary is nil when no document was scored successfully.
	Summary  *Summary      `json:"summary,omitempty"`
	Duration time.Duration `json:"-"`
}

// Successes returns the scored results in ranked order.
func (b *Batch) Successes() []Result {
	return filterResults(b.Results, Result.Success)
}

// Failures returns the failed results in ranked order.
func (b *Batch) Failures() []Result {
	return filterResults(b.Results, func(r Result) bool { return !r.Success() })
}

// Retryable returns the file names whose failure is worth another attempt.
func (b *Batch) Retryable() []string {
	names := make([]string, 0)
	for _, r := range b.Results {
		if !r.Success() && r.Retryable {
			names = append(names, r.FileName)
		}
	}
	return names
}

func filterResults(results []Result, keep func(Result) bool) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of documents scored at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithTopSkills sets how many skills the summary lists.
func WithTopSkills(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.topSkills = n
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner scores documents against a fixed keyword spec.
type Runner struct {
	analyzer    analyzer.Analyzer
	spec        keywords.Spec
	concurrency int
	topSkills   int
	logger      *zap.Logger
}

// NewRunner returns a runner for the keywords. Blank keyword entries are dropped.
func NewRunner(a analyzer.Analyzer, spec keywords.Spec, opts ...Option) *Runner {
	r := &Runner{
		analyzer:    a,
		spec:        spec.Clean(),
		concurrency: runtime.NumCPU(),
		topSkills:   DefaultTopSkills,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run scores docs with the in-process analyzer and default settings.
func Run(ctx context.Context, docs []Document, spec keywords.Spec) (*Batch, error) {
	return NewRunner(analyzer.NewLocal(scoring.DefaultWeights), spec).Run(ctx, docs)
}

// Run scores every document independently and returns the ranked batch.
// Per-document failures end up in the batch. An error is only returned when
// ctx is cancelled before every document completes.
func (r *Runner) Run(ctx context.Context, docs []Document) (*Batch, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := logger.WithScreeningFields(r.logger, runID, "")

	log.Info("screening started",
		zap.Int("documents", len(docs)),
		zap.Int("keywords", r.spec.Len()),
		zap.Int("concurrency", r.concurrency),
	)

	results := make([]Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = r.screen(gctx, doc, log)

			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening run %s: %w", runID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("screening run %s: %w", runID, err)
	}

	Rank(results)

	batch := &Batch{
		RunID:    runID,
		Keywords: r.spec,
		Results:  results,
		Summary:  Summarize(results, r.topSkills),
		Duration: time.Since(started),
	}

	log.Info("screening completed",
		zap.Int("documents", len(results)),
		zap.Int("failed", len(batch.Failures())),
		zap.Duration("duration", batch.Duration),
	)

	return batch, nil
}

// screen never fails: errors and panics become a failed result.
func (r *Runner) screen(ctx context.Context, doc Document, log *zap.Logger) (result Result) {
	log = logger.WithFields(log, logger.ScreeningFields("", doc.FileName)...)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("scoring panicked", zap.Any("panic", rec))
			result = NewFailure(doc.FileName, fmt.Errorf("scoring panicked: %v", rec), false)
		}
	}()

	if doc.Err != nil {
		log.Warn("skipping document", zap.Error(doc.Err))
		return NewFailure(doc.FileName, doc.Err, false)
	}

	if strings.TrimSpace(doc.RawText) == "" {
		log.Warn("skipping document", zap.Error(ErrNoText))
		return NewFailure(doc.FileName, ErrNoText, false)
	}

	spec := r.spec
	record, err := r.analyzer.Analyze(ctx, analyzer.Request{ResumeText: doc.RawText, Keywords: &spec})
	if err != nil {
		retryable := analyzer.IsRetryable(err)
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Warn("scoring failed", zap.Error(err), zap.Bool("retryable", retryable))
		}
		return NewFailure(doc.FileName, err, retryable)
	}

	log.Debug("document scored",
		zap.Int("weighted_score", record.WeightedScore),
		zap.Int("max_score", record.MaxScore),
		zap.Int("percentage", record.Percentage),
	)

	return NewSuccess(doc.FileName, doc.RawText, record)
}

// Rank sorts results by descending weighted score. Failures count as 0 and
// equal scores keep their input order.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
}

// Package analyzer scores a single résumé text against a keyword spec, either
// in process or through a remote analyze endpoint.
package analyzer

import (
	"context"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/matching"
	"github.com/NoBugNinja/Skill-Sync/internal/normalize"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

// Analyzer scores one résumé.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (scoring.Record, error)
}

// Request is the scoring request. A nil Keywords means the keywords were not sent at all.
type Request struct {
	ResumeText string         `json:"resumeText"`
	Keywords   *keywords.Spec `json:"keywords"`
}

// Validate reports ErrMissingData when the text or the keywords are absent.
func (r Request) Validate() error {
	if r.ResumeText == "" || r.Keywords == nil {
		return ErrMissingData
	}
	return nil
}

// Local runs normalization, matching and scoring in process.
type Local struct {
	weights scoring.Weights
}

// NewLocal returns an in-process analyzer. Non-positive weights fall back to defaults.
func NewLocal(weights scoring.Weights) *Local {
	return &Local{weights: weights.OrDefault()}
}

// Analyze scores the request text.
func (l *Local) Analyze(ctx context.Context, req Request) (scoring.Record, error) {
	if err := ctx.Err(); err != nil {
		return scoring.Record{}, err
	}

	if err := req.Validate(); err != nil {
		return scoring.Record{}, err
	}

	spec := req.Keywords.Clean()
	match := matching.MatchSpec(normalize.Stems(req.ResumeText), spec)

	return l.weights.Score(match, spec), nil
}

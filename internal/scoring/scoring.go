// Package scoring turns matched skills into a weighted score and percentage.
package scoring

import (
	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/matching"
)

const (
	DefaultMustHaveWeight   = 3
	DefaultNiceToHaveWeight = 1
)

// DefaultWeights are used by Score.
var DefaultWeights = Weights{MustHave: DefaultMustHaveWeight, NiceToHave: DefaultNiceToHaveWeight}

// Weights are the points a single matched phrase of each list is worth.
type Weights struct {
	MustHave   int `mapstructure:"must-have" json:"mustHave"`
	NiceToHave int `mapstructure:"nice-to-have" json:"niceToHave"`
}

// Record is the scoring outcome of one document.
type Record struct {
	WeightedScore     int      `json:"weightedScore"`
	MaxScore          int      `json:"maxScore"`
	Percentage        int      `json:"percentage"`
	MatchedMustHave   []string `json:"matchedMustHave"`
	MatchedNiceToHave []string `json:"matchedNiceToHave"`
}

// Score scores a match with the default weights.
func Score(match matching.Result, spec keywords.Spec) Record {
	return DefaultWeights.Score(match, spec)
}

// OrDefault replaces non-positive weights with their defaults.
func (w Weights) OrDefault() Weights {
	if w.MustHave <= 0 {
		w.MustHave = DefaultMustHaveWeight
	}
	if w.NiceToHave <= 0 {
		w.NiceToHave = DefaultNiceToHaveWeight
	}
	return w
}

// Score computes the weighted score of the match. The maximum counts every
// keyword entry, duplicates included.
func (w Weights) Score(match matching.Result, spec keywords.Spec) Record {
	weighted := len(match.MustHave)*w.MustHave + len(match.NiceToHave)*w.NiceToHave
	maxScore := len(spec.MustHave)*w.MustHave + len(spec.NiceToHave)*w.NiceToHave

	return Record{
		WeightedScore:     weighted,
		MaxScore:          maxScore,
		Percentage:        Percentage(weighted, maxScore),
		MatchedMustHave:   nonNil(match.MustHave),
		MatchedNiceToHave: nonNil(match.NiceToHave),
	}
}

// Percentage is 100*score/maxScore rounded half up, or 0 when maxScore is 0.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 || score <= 0 {
		return 0
	}
	if score >= maxScore {
		return 100
	}
	return (200*score + maxScore) / (2 * maxScore)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

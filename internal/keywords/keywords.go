// Package keywords holds the recruiter supplied skill lists.
package keywords

import (
	"errors"
	"strings"
)

// ErrNoMustHave is returned when a screening is started without any must-have skill.
var ErrNoMustHave = errors.New("please enter at least one 'Must-Have' skill")

// Spec is the pair of skill lists a batch is screened against.
// It is never modified once a run has started.
type Spec struct {
	MustHave   []string `json:"mustHave" mapstructure:"must-have"`
	NiceToHave []string `json:"niceToHave" mapstructure:"nice-to-have"`
}

// Parse splits raw input on runs of commas and newlines, trims every entry and
// drops the blank ones.
func Parse(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	return clean(parts)
}

// Clean returns a copy of s with trimmed, non-blank entries. Order is kept.
func (s Spec) Clean() Spec {
	return Spec{
		MustHave:   clean(s.MustHave),
		NiceToHave: clean(s.NiceToHave),
	}
}

// Validate checks the keywords are usable as a screening input.
func (s Spec) Validate() error {
	if len(clean(s.MustHave)) == 0 {
		return ErrNoMustHave
	}
	return nil
}

// All returns must-have entries followed by nice-to-have entries.
func (s Spec) All() []string {
	all := make([]string, 0, len(s.MustHave)+len(s.NiceToHave))
	all = append(all, s.MustHave...)
	return append(all, s.NiceToHave...)
}

// Len is the total number of entries in both lists.
func (s Spec) Len() int {
	return len(s.MustHave) + len(s.NiceToHave)
}

func clean(entries []string) []string {
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		result = append(result, entry)
	}
	return result
}

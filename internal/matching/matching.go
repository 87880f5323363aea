// Package matching decides which skill phrases a résumé covers.
package matching

import (
	"strings"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/normalize"
)

// Result holds the matched phrases of both lists, in their original text.
type Result struct {
	MustHave   []string
	NiceToHave []string
}

// Match returns the phrases whose last word stems into the set. The returned
// phrases keep their original text and order, each one at most once.
func Match(stems normalize.StemSet, phrases []string) []string {
	matched := make([]string, 0, len(phrases))
	if stems.Len() == 0 {
		return matched
	}

	seen := make(map[string]struct{}, len(phrases))

	for _, phrase := range phrases {
		if _, ok := seen[phrase]; ok {
			continue
		}

		word := lastWord(phrase)
		if word == "" || !stems.Has(normalize.Stem(word)) {
			continue
		}

		seen[phrase] = struct{}{}
		matched = append(matched, phrase)
	}

	return matched
}

// MatchSpec matches both keyword lists against the stem set.
func MatchSpec(stems normalize.StemSet, spec keywords.Spec) Result {
	return Result{
		MustHave:   Match(stems, spec.MustHave),
		NiceToHave: Match(stems, spec.NiceToHave),
	}
}

func lastWord(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

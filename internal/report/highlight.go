package report

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
)

// MissingSkills lists the keywords a candidate did not match.
type MissingSkills struct {
	MustHave   []string `json:"missingMustHave"`
	NiceToHave []string `json:"missingNiceToHave"`
}

// Missing returns the keywords absent from the record, in input order.
func Missing(spec keywords.Spec, record scoring.Record) MissingSkills {
	return MissingSkills{
		MustHave:   subtract(spec.MustHave, record.MatchedMustHave),
		NiceToHave: subtract(spec.NiceToHave, record.MatchedNiceToHave),
	}
}

func subtract(all, matched []string) []string {
	found := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		found[m] = struct{}{}
	}

	missing := make([]string, 0, len(all))
	for _, entry := range all {
		if _, ok := found[entry]; !ok {
			missing = append(missing, entry)
		}
	}
	return missing
}

// Highlight wraps every whole-word, case-insensitive occurrence of the phrases
// in text with mark. Longer phrases win over their prefixes. Word boundaries
// are only required on the sides where a phrase starts or ends with a word
// character, so phrases like "C++" or ".NET" are found too.
func Highlight(text string, phrases []string, mark func(string) string) string {
	pattern := highlightPattern(phrases)
	if pattern == nil || mark == nil {
		return text
	}
	return pattern.ReplaceAllStringFunc(text, mark)
}

func highlightPattern(phrases []string) *regexp.Regexp {
	trimmed := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			trimmed = append(trimmed, phrase)
		}
	}

	if len(trimmed) == 0 {
		return nil
	}

	sort.SliceStable(trimmed, func(i, j int) bool {
		return len(trimmed[i]) > len(trimmed[j])
	})

	alternatives := make([]string, 0, len(trimmed))
	for _, phrase := range trimmed {
		alternatives = append(alternatives, phrasePattern(phrase))
	}

	return regexp.MustCompile(`(?i)` + strings.Join(alternatives, "|"))
}

func phrasePattern(phrase string) string {
	pattern := regexp.QuoteMeta(phrase)

	first, _ := utf8.DecodeRuneInString(phrase)
	if isWordRune(first) {
		pattern = `\b` + pattern
	}

	last, _ := utf8.DecodeLastRuneInString(phrase)
	if isWordRune(last) {
		pattern += `\b`
	}

	return pattern
}

// isWordRune matches the ASCII word class of regexp's \b.
func isWordRune(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Package normalize turns free text into lower-cased word tokens and stems.
package normalize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// StemSet holds the distinct stems found in one document.
type StemSet map[string]struct{}

// Has reports whether the stem is present in the set.
func (s StemSet) Has(stem string) bool {
	_, ok := s[stem]
	return ok
}

// Len returns the number of distinct stems.
func (s StemSet) Len() int {
	return len(s)
}

// Tokenize lower-cases text and splits it into word units. Letters, digits
// and underscores form words; everything else is a separator.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// Stem reduces a word to its suffix-stripped root. The result only depends on
// the input word.
func Stem(word string) string {
	if word == "" {
		return ""
	}

	return english.Stem(strings.ToLower(word), false)
}

// Stems tokenizes text and returns the set of stems of all its tokens.
func Stems(text string) StemSet {
	tokens := Tokenize(text)
	set := make(StemSet, len(tokens))
	for _, token := range tokens {
		set[Stem(token)] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Package textvec turns short documents into TF-IDF vectors over a shared
// vocabulary and compares them with cosine similarity.
package textvec

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes drops single-character tokens.
const minTokenRunes = 2

// tokenizer lower-cases text and splits it on anything that is not a word rune.
// A cases.Caser is stateful, so a tokenizer must not be shared between goroutines.
type tokenizer struct {
	lower     cases.Caser
	stopWords map[string]struct{}
}

func newTokenizer(stopWords map[string]struct{}) *tokenizer {
	return &tokenizer{
		lower:     cases.Lower(language.Und),
		stopWords: stopWords,
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// tokens returns the terms of doc in order, stop words removed.
func (t *tokenizer) tokens(doc string) []string {
	fields := strings.FieldsFunc(t.lower.String(doc), func(r rune) bool {
		return !isWordRune(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenRunes {
			continue
		}
		if _, stop := t.stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Tokenize splits doc the same way the vectorizer does, with the given stop words.
func Tokenize(doc string, stopWords []string) []string {
	return newTokenizer(stopWordSet(stopWords)).tokens(doc)
}

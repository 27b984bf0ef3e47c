package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery reduces query text to the key used for label lookups.
// It lower-cases, folds Vietnamese diacritics, strips every character that
// is not a word character or whitespace, and trims.
//
// "Làm căn cước?" and "lam can cuoc" normalize to the same key.
func NormalizeQuery(s string) string {
	s = strings.ToLower(s)
	s = foldDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// Slugify converts a procedure name into a URL path segment.
// Letters and digits are kept (including accented letters) along with
// hyphens. Each whitespace character becomes a hyphen and everything else
// is dropped. Surrounding whitespace is trimmed first.
func Slugify(name string) string {
	s := strings.ToLower(norm.NFC.String(strings.TrimSpace(name)))
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			return r
		case unicode.IsSpace(r):
			return '-'
		}
		return -1
	}, s)
}

// foldDiacritics removes combining marks and maps đ to d.
func foldDiacritics(s string) string {
	// Transformers carry state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case 'đ':
			return 'd'
		case 'Đ':
			return 'D'
		}
		return r
	}, folded)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

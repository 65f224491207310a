package helper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Slugify derives the URL identifier from a question title: accents folded,
// lowercased, non-word characters stripped, runs of whitespace collapsed to
// single dashes.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(strings.TrimSpace(folded))
	slug = nonWord.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

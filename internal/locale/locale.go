// Package locale holds the user-facing text of a risk analysis: contributing
// factor sentences and preparedness recommendations, one table per language.
//
// Only prose varies by language. Numbers interpolated into factor sentences
// use the same formatting everywhere (one decimal for millimetres and
// discharge, no decimals for soil percentage and weekly totals).
package locale

import "strings"

// Language is a supported output language tag.
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
	Spanish    Language = "es"
)

// Default is used whenever a requested tag is empty or unsupported.
const Default = English

// Supported lists every language with a complete text table.
func Supported() []Language {
	return []Language{English, Portuguese, Spanish}
}

// Parse normalizes a language tag such as "pt-BR" or "ES" to a supported
// Language. Unknown or empty tags resolve to Default.
func Parse(tag string) Language {
	if lang := primarySubtag(tag); IsSupported(string(lang)) {
		return lang
	}
	return Default
}

// IsSupported reports whether tag names a language with its own table.
func IsSupported(tag string) bool {
	_, ok := factorText[primarySubtag(tag)]
	return ok
}

func primarySubtag(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return Language(tag)
}

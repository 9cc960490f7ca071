// Package i18n exposes the languages the web service can render.
package i18n

import (
	"strings"

	"github.com/civicspace/agora/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

// SerbianLatin is the platform's home language.
var SerbianLatin = language.MustParse("sr-Latn-RS")

var (
	supportedTags = []language.Tag{language.AmericanEnglish, SerbianLatin}
	matcher       = language.NewMatcher(supportedTags)
)

func init() {
	// Registering the embedded catalog makes message printers resolve keys.
	_ = catalog.Default()
}

// SupportedTags returns the supported language tags in display order.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses a tag and reports whether it maps to a supported language.
func ParseTag(raw string) (language.Tag, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags picks the best supported tag for an ordered preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

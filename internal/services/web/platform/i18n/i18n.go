// Package i18n resolves the visitor language and localizes page copy.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	platformi18n "github.com/civicspace/agora/internal/platform/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "agora_lang"
)

// Localizer translates catalog keys for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer builds a localizer for tag.
func NewLocalizer(tag language.Tag) Localizer {
	return Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the localizer language.
func (l Localizer) Tag() language.Tag {
	if l.printer == nil {
		return platformi18n.DefaultTag()
	}
	return l.tag
}

// T translates key with optional fmt-style args.
func (l Localizer) T(key string, args ...any) string {
	if l.printer == nil {
		l = NewLocalizer(platformi18n.DefaultTag())
	}
	return l.printer.Sprintf(key, args...)
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter, then the preference cookie, then Accept-Language. The bool
// reports whether the query selection should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := platformi18n.ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// ResolveLocalizer resolves the request language, persisting an explicit
// query selection as a cookie.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) Localizer {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return NewLocalizer(tag)
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions lists supported languages for the switcher, linking each to
// the current path.
func LanguageOptions(loc Localizer, path string, rawQuery string) []LanguageOption {
	options := make([]LanguageOption, 0, 2)
	for _, tag := range platformi18n.SupportedTags() {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  loc.T("core.lang." + tag.String()),
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == loc.Tag(),
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

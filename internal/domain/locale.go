package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is the display language of a storefront session.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

// DefaultLocale is used when nothing better can be negotiated.
const DefaultLocale = LocaleEN

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Russian,
})

func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleRU
}

// Pick returns the variant of a bilingual field for this locale.
func (l Locale) Pick(en, ru string) string {
	if l == LocaleRU {
		return ru
	}
	return en
}

// ParseLocale accepts "en"/"ru" or any BCP 47 tag that reduces to one of them.
func ParseLocale(s string) (Locale, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", false
	}
	if l := Locale(s); l.Valid() {
		return l, true
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if l := Locale(base.String()); l.Valid() {
		return l, true
	}
	return "", false
}

// NegotiateLocale resolves an explicit lang parameter first and falls back
// to the Accept-Language header.
func NegotiateLocale(explicit, acceptLanguage string) Locale {
	if l, ok := ParseLocale(explicit); ok {
		return l
	}
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	if idx == 1 {
		return LocaleRU
	}
	return LocaleEN
}

// Tag returns the language tag used for collation.
func (l Locale) Tag() language.Tag {
	if l == LocaleRU {
		return language.Russian
	}
	return language.English
}

package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	// CookieName persists the visitor's explicit language choice.
	CookieName = "makani_language"
	// StorageKey is the browser storage key mirrored into HeaderName.
	StorageKey = "makani.language"
	HeaderName = "X-Makani-Language"

	CookieMaxAge = 60 * 60 * 24 * 365
)

// Context is the per-request language state. It is passed explicitly to
// whatever needs it instead of living in a global.
type Context struct {
	Lang          Language
	HasPreference bool
	store         *Store
}

func NewContext(store *Store, lang Language, hasPreference bool) Context {
	if _, ok := ParseLanguage(string(lang)); !ok {
		lang = EN
	}
	return Context{Lang: lang, HasPreference: hasPreference, store: store}
}

func (c Context) Dir() string { return c.Lang.Dir() }

// T never fails: unknown keys come back as the key itself.
func (c Context) T(section, key string) string {
	if c.store == nil {
		if key == "" {
			return section
		}
		return key
	}
	return c.store.T(c.Lang, section, key)
}

func (c Context) Store() *Store { return c.store }

// WithLanguage records an explicit choice.
func (c Context) WithLanguage(lang Language) Context {
	c.Lang = lang
	c.HasPreference = true
	return c
}

// Resolve picks the active language. An explicit cookie wins over the
// storage mirror header, which wins over the server default. The bool
// reports whether an explicit preference was found.
func Resolve(cookie, stored string, fallback Language) (Language, bool) {
	for _, candidate := range []string{cookie, stored} {
		if lang, ok := parseTag(candidate); ok {
			return lang, true
		}
	}
	if _, ok := ParseLanguage(string(fallback)); !ok {
		fallback = EN
	}
	return fallback, false
}

// parseTag accepts plain codes as well as BCP 47 tags such as "fr-FR".
func parseTag(v string) (Language, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if lang, ok := ParseLanguage(v); ok {
		return lang, true
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	return ParseLanguage(base.String())
}

package middleware

import (
	"makani-studio/internal/domain/i18n"

	"github.com/gin-gonic/gin"
)

const ctxLanguage = "i18n"

// Language resolves the request language: the language cookie, then the
// mirrored storage header, then fallback. Accept-Language is ignored: a
// first visit always starts in the server default.
func Language(store *i18n.Store, fallback i18n.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(i18n.CookieName)
		lang, explicit := i18n.Resolve(cookie, c.GetHeader(i18n.HeaderName), fallback)
		c.Set(ctxLanguage, i18n.NewContext(store, lang, explicit))
		c.Next()
	}
}

// LanguageFrom returns the context set by Language, or English.
func LanguageFrom(c *gin.Context) i18n.Context {
	if v, ok := c.Get(ctxLanguage); ok {
		if lc, ok := v.(i18n.Context); ok {
			return lc
		}
	}
	return i18n.NewContext(nil, i18n.EN, false)
}

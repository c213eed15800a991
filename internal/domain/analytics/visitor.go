package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// VisitorCookie carries the visitor token between requests.
	VisitorCookie    = "makani_visitor"
	VisitorCookieAge = 60 * 60 * 24 * 365

	DefaultIPSalt = "makani"
)

// Field limits applied before anything is stored.
const (
	MaxPath     = 500
	MaxReferrer = 1000
	MaxLanguage = 32
	MaxTimezone = 64
	MaxScreen   = 32
	MaxUTM      = 150
)

var (
	tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{8,120}$`)
	uuidPattern  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

type DeviceClass string

const (
	DeviceUnknown DeviceClass = "unknown"
	DeviceBot     DeviceClass = "bot"
	DeviceTablet  DeviceClass = "tablet"
	DeviceMobile  DeviceClass = "mobile"
	DeviceDesktop DeviceClass = "desktop"
)

// ClassifyDevice matches user-agent substrings; the first rule that hits wins.
func ClassifyDevice(userAgent string) DeviceClass {
	if userAgent == "" {
		return DeviceUnknown
	}
	ua := strings.ToLower(userAgent)
	switch {
	case containsAny(ua, "bot", "crawler", "spider"):
		return DeviceBot
	case containsAny(ua, "ipad", "tablet"):
		return DeviceTablet
	case containsAny(ua, "mobile", "android", "iphone"):
		return DeviceMobile
	}
	return DeviceDesktop
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SanitizeText trims and truncates to maxLen characters. Blank input gives nil.
func SanitizeText(value string, maxLen int) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if utf8.RuneCountInString(v) > maxLen {
		v = string([]rune(v)[:maxLen])
	}
	return &v
}

// SanitizeToken returns the trimmed token when it looks like one we issued.
func SanitizeToken(value string) (string, bool) {
	v := strings.TrimSpace(value)
	return v, tokenPattern.MatchString(v)
}

// ResolveToken picks the cookie, then a well-formed client token, then a
// fresh one.
func ResolveToken(cookie, client string) string {
	if cookie != "" {
		return cookie
	}
	if t, ok := SanitizeToken(client); ok {
		return t
	}
	return uuid.NewString()
}

func ValidProjectID(id string) (string, bool) {
	v := strings.TrimSpace(id)
	return v, uuidPattern.MatchString(v)
}

// ClientIP reads the proxy headers in order and falls back to remote.
func ClientIP(header func(string) string, remote string) string {
	if fwd := header("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(header(h)); v != "" {
			return v
		}
	}
	return remote
}

// HashIP returns the hex sha256 of "ip:salt", or nil without an IP.
func HashIP(ip, salt string) *string {
	if ip == "" {
		return nil
	}
	if salt == "" {
		salt = DefaultIPSalt
	}
	sum := sha256.Sum256([]byte(ip + ":" + salt))
	h := hex.EncodeToString(sum[:])
	return &h
}

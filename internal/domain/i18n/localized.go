package i18n

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type Language string

const (
	EN Language = "en"
	FR Language = "fr"
	AR Language = "ar"
)

// Languages lists the supported languages, base language first.
var Languages = []Language{EN, FR, AR}

// ParseLanguage accepts "en", "fr" or "ar" in any case.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, true
	case FR:
		return FR, true
	case AR:
		return AR, true
	}
	return "", false
}

// Dir is the document text direction for the language.
func (l Language) Dir() string {
	if l == AR {
		return "rtl"
	}
	return "ltr"
}

// Translator produces a text in all three languages from one source language.
type Translator interface {
	TranslateToAll(ctx context.Context, text string, source Language) LocalizedText
}

// LocalizedText is one logical field present in EN, FR and AR.
// Stored as a jsonb object.
type LocalizedText struct {
	EN string `json:"en"`
	FR string `json:"fr"`
	AR string `json:"ar"`
}

// FromSource builds a LocalizedText where every slot holds value.
func FromSource(value string) LocalizedText {
	return LocalizedText{EN: value, FR: value, AR: value}
}

func (t LocalizedText) Get(lang Language) string {
	switch lang {
	case FR:
		return t.FR
	case AR:
		return t.AR
	default:
		return t.EN
	}
}

func (t *LocalizedText) Set(lang Language, value string) {
	switch lang {
	case FR:
		t.FR = value
	case AR:
		t.AR = value
	default:
		t.EN = value
	}
}

// Pick returns the value for lang, or the EN value when that slot is empty.
func (t LocalizedText) Pick(lang Language) string {
	if v := t.Get(lang); v != "" {
		return v
	}
	return t.EN
}

// Normalize fills empty FR/AR slots from EN.
func (t LocalizedText) Normalize() LocalizedText {
	if t.FR == "" {
		t.FR = t.EN
	}
	if t.AR == "" {
		t.AR = t.EN
	}
	return t
}

func (t LocalizedText) IsZero() bool {
	return t.EN == "" && t.FR == "" && t.AR == ""
}

// UnmarshalJSON accepts either an object or a bare string. A bare string is
// mirrored into every slot, which is how legacy status columns were written.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*t = LocalizedText{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = FromSource(s)
		return nil
	}

	var raw struct {
		EN *string `json:"en"`
		FR *string `json:"fr"`
		AR *string `json:"ar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("localized text: %w", err)
	}
	*t = LocalizedText{EN: deref(raw.EN), FR: deref(raw.FR), AR: deref(raw.AR)}
	return nil
}

func (t LocalizedText) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *LocalizedText) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*t = LocalizedText{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("localized text: unsupported scan type %T", value)
	}

	// plain text columns hold the value unquoted
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && trimmed != "null" && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, `"`) {
		*t = FromSource(trimmed)
		return nil
	}
	return t.UnmarshalJSON([]byte(raw))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package projects

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"makani-studio/internal/domain/i18n"
)

// Status is the fixed project status vocabulary. It is stored as its key and
// exposed as a LocalizedText with the key mirrored into every language.
type Status string

const (
	StatusDesign     Status = "design"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusDesign, StatusInProgress, StatusCompleted}

var embeddedLabels = sync.OnceValue(func() *i18n.Store { return i18n.MustLoadStore() })

// ParseStatus matches a key or any localized label, ignoring case. Labels
// come from the status section of store, or the embedded dictionaries when
// store is nil.
func ParseStatus(raw string, store *i18n.Store) (Status, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", false
	}
	for _, s := range Statuses {
		if v == string(s) {
			return s, true
		}
	}
	if store == nil {
		store = embeddedLabels()
	}
	for _, s := range Statuses {
		for _, lang := range i18n.Languages {
			if strings.ToLower(store.T(lang, "status", string(s))) == v {
				return s, true
			}
		}
	}
	return "", false
}

// NormalizeStatus is ParseStatus with the design default.
func NormalizeStatus(raw string, store *i18n.Store) Status {
	if s, ok := ParseStatus(raw, store); ok {
		return s
	}
	return StatusDesign
}

func (s Status) Label(lc i18n.Context) string {
	return lc.T("status", string(s))
}

func (s Status) Localized() i18n.LocalizedText {
	return i18n.FromSource(string(s))
}

func (s Status) Value() (driver.Value, error) {
	if s == "" {
		return string(StatusDesign), nil
	}
	return string(s), nil
}

// Scan accepts the plain key, a JSON string, or a localized object written by
// older rows. Only the EN slot of an object is considered.
func (s *Status) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = StatusDesign
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("project status: unsupported scan type %T", value)
	}
	var lt i18n.LocalizedText
	if err := lt.Scan(raw); err != nil {
		return err
	}
	*s = NormalizeStatus(lt.EN, nil)
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Localized())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var lt i18n.LocalizedText
	if err := lt.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = NormalizeStatus(lt.EN, nil)
	return nil
}

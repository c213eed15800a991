package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// entry is either a plain string or a section of keyed strings.
type entry struct {
	text    string
	section map[string]string
}

// Store is the in-memory dictionary of UI strings, one per language.
type Store struct {
	dict map[Language]map[string]entry
}

// LoadStore reads the embedded locale files. The EN file is required.
func LoadStore() (*Store, error) {
	s := &Store{dict: map[Language]map[string]entry{}}
	for _, lang := range Languages {
		raw, err := localeFS.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			if lang == EN {
				return nil, fmt.Errorf("load locale %s: %w", lang, err)
			}
			continue
		}
		entries, err := parseLocale(raw)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		s.dict[lang] = entries
	}
	return s, nil
}

// MustLoadStore panics when the embedded dictionaries are broken.
func MustLoadStore() *Store {
	s, err := LoadStore()
	if err != nil {
		panic(err)
	}
	return s
}

// NewStore builds a store from sections keyed by language, mostly for tests.
func NewStore(dict map[Language]map[string]map[string]string) *Store {
	s := &Store{dict: map[Language]map[string]entry{}}
	for lang, sections := range dict {
		m := map[string]entry{}
		for name, keys := range sections {
			m[name] = entry{section: keys}
		}
		s.dict[lang] = m
	}
	return s
}

func parseLocale(raw []byte) (map[string]entry, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]entry, len(doc))
	for name, v := range doc {
		switch val := v.(type) {
		case string:
			out[name] = entry{text: val}
		case map[string]interface{}:
			keys := make(map[string]string, len(val))
			for k, kv := range val {
				keys[k] = fmt.Sprint(kv)
			}
			out[name] = entry{section: keys}
		default:
			return nil, fmt.Errorf("section %q: unsupported value %T", name, v)
		}
	}
	return out, nil
}

// T resolves (section, key) in lang, then in EN, then returns the key.
// With an empty key it returns the section's own string value.
func (s *Store) T(lang Language, section, key string) string {
	if v, ok := s.lookup(lang, section, key); ok {
		return v
	}
	if lang != EN {
		if v, ok := s.lookup(EN, section, key); ok {
			return v
		}
	}
	if key == "" {
		return section
	}
	return key
}

// Localized returns (section, key) in every language as one value.
func (s *Store) Localized(section, key string) LocalizedText {
	return LocalizedText{
		EN: s.T(EN, section, key),
		FR: s.T(FR, section, key),
		AR: s.T(AR, section, key),
	}
}

func (s *Store) lookup(lang Language, section, key string) (string, bool) {
	if s == nil {
		return "", false
	}
	e, ok := s.dict[lang][section]
	if !ok {
		return "", false
	}
	if key == "" {
		if e.section != nil {
			return "", false
		}
		return e.text, true
	}
	v, ok := e.section[key]
	return v, ok
}

package categories

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a category key from a label.
// Example: "Équipements Publics" -> "equipements-publics"
func Slugify(label string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), label)
	if err != nil {
		folded = label
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueKey slugifies label and appends the first free -2, -3, ... suffix
// when the slug is already taken. Comparison ignores case.
func UniqueKey(label string, existing []string) string {
	base := Slugify(label)
	if base == "" {
		base = "category"
	}
	taken := make(map[string]struct{}, len(existing))
	for _, k := range existing {
		taken[strings.ToLower(k)] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

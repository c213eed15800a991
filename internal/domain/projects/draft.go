package projects

import (
	"strings"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/media"
)

// Draft is the editable form state of one project. Text fields hold the
// values typed in Language; the other languages are produced on save.
type Draft struct {
	ID      string
	Version int

	Category    string
	Year        string
	Area        string
	Title       string
	Location    string
	Description string
	Concept     string
	Status      string

	Language  i18n.Language
	Published bool
}

func (d Draft) IsEdit() bool { return d.ID != "" }

// BlankDraft is the state of a new project form.
func BlankDraft(lang i18n.Language) Draft {
	if _, ok := i18n.ParseLanguage(string(lang)); !ok {
		lang = i18n.EN
	}
	return Draft{Status: string(StatusDesign), Language: lang}
}

// DraftFromProject loads a persisted row back into form state, reading the
// text fields in lang.
func DraftFromProject(p Project, lang i18n.Language) Draft {
	d := BlankDraft(lang)
	d.ID = p.ID
	d.Version = p.Version
	d.Category = p.Category
	if p.Year != nil {
		d.Year = *p.Year
	}
	if p.Area != nil {
		d.Area = *p.Area
	}
	d.Title = p.Title.Pick(d.Language)
	d.Location = p.Location.Pick(d.Language)
	d.Description = p.Description.Pick(d.Language)
	d.Concept = p.Concept.Pick(d.Language)
	d.Status = string(p.Status)
	d.Published = p.Published
	return d
}

// Publish gate keys, in the order they are reported.
const (
	FieldCategory    = "fieldCategory"
	FieldCover       = "fieldCover"
	FieldTitle       = "fieldTitle"
	FieldLocation    = "fieldLocation"
	FieldStatus      = "fieldStatus"
	FieldDescription = "fieldDescription"
	FieldConcept     = "fieldConcept"
)

// MissingFields lists the publish gate keys whose value is empty. Year and
// area are never gated.
func MissingFields(d Draft, m *media.Draft) []string {
	var missing []string
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	if blank(d.Category) {
		missing = append(missing, FieldCategory)
	}
	if m == nil || !m.HasCover() {
		missing = append(missing, FieldCover)
	}
	if blank(d.Title) {
		missing = append(missing, FieldTitle)
	}
	if blank(d.Location) {
		missing = append(missing, FieldLocation)
	}
	if blank(d.Status) {
		missing = append(missing, FieldStatus)
	}
	if blank(d.Description) {
		missing = append(missing, FieldDescription)
	}
	if blank(d.Concept) {
		missing = append(missing, FieldConcept)
	}
	return missing
}

// ValidateForPublish returns the localized labels of the missing fields.
func ValidateForPublish(lc i18n.Context, d Draft, m *media.Draft) []string {
	keys := MissingFields(d, m)
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, lc.T("admin", k))
	}
	return labels
}

// Texts holds the translated free-text fields of a draft.
type Texts struct {
	Title       i18n.LocalizedText
	Location    i18n.LocalizedText
	Description i18n.LocalizedText
	Concept     i18n.LocalizedText
}

// ToPayload builds the row to persist. Empty FR/AR slots fall back to EN and
// empty year or area become NULL.
func ToPayload(d Draft, texts Texts, coverURL string, gallery []string, categoryLabel i18n.LocalizedText) Project {
	p := Project{
		ID:            d.ID,
		Version:       d.Version,
		Category:      strings.TrimSpace(d.Category),
		Year:          nullable(d.Year),
		Area:          nullable(d.Area),
		CoverImage:    strings.TrimSpace(coverURL),
		Images:        StringList{},
		Published:     d.Published,
		Title:         trimText(texts.Title).Normalize(),
		CategoryLabel: trimText(categoryLabel).Normalize(),
		Location:      trimText(texts.Location).Normalize(),
		Description:   trimText(texts.Description).Normalize(),
		Concept:       trimText(texts.Concept).Normalize(),
		Status:        NormalizeStatus(d.Status, nil),
	}
	for _, u := range gallery {
		if u = strings.TrimSpace(u); u != "" {
			p.Images = append(p.Images, u)
		}
	}
	return p
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimText(t i18n.LocalizedText) i18n.LocalizedText {
	return i18n.LocalizedText{
		EN: strings.TrimSpace(t.EN),
		FR: strings.TrimSpace(t.FR),
		AR: strings.TrimSpace(t.AR),
	}
}

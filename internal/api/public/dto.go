package public

import (
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/projects"
)

type categoryDTO struct {
	ID        string             `json:"id"`
	Key       string             `json:"key"`
	Label     i18n.LocalizedText `json:"label"`
	Name      string             `json:"name"`
	SortOrder int                `json:"sort_order"`
}

func toCategoryDTO(c categories.Category, lang i18n.Language) categoryDTO {
	return categoryDTO{
		ID:        c.ID,
		Key:       c.Key,
		Label:     c.Label,
		Name:      c.Label.Pick(lang),
		SortOrder: c.SortOrder,
	}
}

// projectDTO carries every language plus the strings for the request
// language.
type projectDTO struct {
	projects.Project
	Localized localizedProject `json:"localized"`
}

type localizedProject struct {
	Title         string `json:"title"`
	CategoryLabel string `json:"category_label"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	Concept       string `json:"concept"`
	Status        string `json:"status"`
	Year          string `json:"year"`
	Area          string `json:"area"`
}

func toProjectDTO(p projects.Project, lc i18n.Context) projectDTO {
	lang := lc.Lang
	out := projectDTO{Project: p, Localized: localizedProject{
		Title:         p.Title.Pick(lang),
		CategoryLabel: p.CategoryLabel.Pick(lang),
		Location:      p.Location.Pick(lang),
		Description:   p.Description.Pick(lang),
		Concept:       p.Concept.Pick(lang),
		Status:        p.Status.Label(lc),
	}}
	if p.Year != nil {
		out.Localized.Year = *p.Year
	}
	if p.Area != nil {
		out.Localized.Area = *p.Area
	}
	if out.Project.Images == nil {
		out.Project.Images = projects.StringList{}
	}
	return out
}

type languageDTO struct {
	Language      i18n.Language   `json:"language"`
	Dir           string          `json:"dir"`
	HasPreference bool            `json:"has_preference"`
	Supported     []i18n.Language `json:"supported"`
}

func toLanguageDTO(lc i18n.Context) languageDTO {
	return languageDTO{
		Language:      lc.Lang,
		Dir:           lc.Dir(),
		HasPreference: lc.HasPreference,
		Supported:     i18n.Languages,
	}
}

package projects

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"makani-studio/internal/domain/i18n"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Category string  `gorm:"type:text;index" json:"category"`
	Year     *string `json:"year"`
	Area     *string `json:"area"`

	CoverImage string     `gorm:"column:cover_image" json:"cover_image"`
	Images     StringList `gorm:"type:jsonb" json:"images"`

	Published bool `gorm:"not null;default:false;index" json:"published"`

	Title         i18n.LocalizedText `gorm:"type:jsonb" json:"title"`
	CategoryLabel i18n.LocalizedText `gorm:"type:jsonb" json:"category_label"`
	Location      i18n.LocalizedText `gorm:"type:jsonb" json:"location"`
	Description   i18n.LocalizedText `gorm:"type:jsonb" json:"description"`
	Concept       i18n.LocalizedText `gorm:"type:jsonb" json:"concept"`
	Status        Status             `gorm:"type:text;not null;default:'design'" json:"status"`

	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// MediaURLs returns the cover and gallery URLs owned by the row.
func (p Project) MediaURLs() []string {
	urls := make([]string, 0, len(p.Images)+1)
	if p.CoverImage != "" {
		urls = append(urls, p.CoverImage)
	}
	return append(urls, p.Images...)
}

// StringList is an ordered list of URLs stored as a jsonb array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

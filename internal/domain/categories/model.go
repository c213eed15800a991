package categories

import (
	"time"

	"makani-studio/internal/domain/i18n"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string             `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string             `gorm:"type:text;uniqueIndex;not null" json:"key"`
	Label     i18n.LocalizedText `gorm:"type:jsonb" json:"label"`
	SortOrder int                `gorm:"not null;default:0;index" json:"sort_order"`
	IsActive  bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

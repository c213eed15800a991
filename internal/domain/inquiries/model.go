package inquiries

import (
	"time"

	"makani-studio/internal/domain/i18n"
)

type Type string

const (
	TypeContact Type = "contact"
	TypeProject Type = "project"
	TypePress   Type = "press"
	TypeCareer  Type = "career"
	TypeOther   Type = "other"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

var Statuses = []Status{StatusNew, StatusRead, StatusReplied, StatusArchived}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Inquiry struct {
	ID          string              `gorm:"type:uuid;primaryKey" json:"id"`
	Type        Type                `gorm:"type:text;not null;default:'contact'" json:"type"`
	Name        string              `gorm:"not null" json:"name"`
	Email       string              `gorm:"not null" json:"email"`
	Phone       *string             `json:"phone"`
	Subject     *string             `json:"subject"`
	SubjectI18n *i18n.LocalizedText `gorm:"type:jsonb;column:subject_i18n" json:"subject_i18n"`
	Message     string              `gorm:"not null" json:"message"`
	MessageI18n *i18n.LocalizedText `gorm:"type:jsonb;column:message_i18n" json:"message_i18n"`
	Status      Status              `gorm:"type:text;not null;default:'new';index" json:"status"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
}

package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitSession is one row per visitor token.
type VisitSession struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	VisitorToken string    `gorm:"type:text;uniqueIndex;not null" json:"visitor_token"`
	FirstSeenAt  time.Time `gorm:"index" json:"first_seen_at"`
	LastSeenAt   time.Time `gorm:"index" json:"last_seen_at"`
	VisitsCount  int       `gorm:"not null;default:0" json:"visits_count"`

	LastPath        string  `json:"last_path"`
	UserAgent       *string `json:"user_agent,omitempty"`
	LastReferrer    *string `json:"last_referrer,omitempty"`
	LastLanguage    *string `json:"last_language,omitempty"`
	LastTimezone    *string `json:"last_timezone,omitempty"`
	LastScreen      *string `json:"last_screen,omitempty"`
	LastUTMSource   *string `gorm:"column:last_utm_source" json:"last_utm_source,omitempty"`
	LastUTMMedium   *string `gorm:"column:last_utm_medium" json:"last_utm_medium,omitempty"`
	LastUTMCampaign *string `gorm:"column:last_utm_campaign" json:"last_utm_campaign,omitempty"`
	LastUTMTerm     *string `gorm:"column:last_utm_term" json:"last_utm_term,omitempty"`
	LastUTMContent  *string `gorm:"column:last_utm_content" json:"last_utm_content,omitempty"`
	IPHash          *string `gorm:"column:ip_hash" json:"-"`
	DeviceType      string  `json:"device_type"`
}

func (VisitSession) TableName() string { return "site_visits" }

func (v *VisitSession) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VisitEvent is an immutable record of one navigation.
type VisitEvent struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	VisitorToken string    `gorm:"type:text;index;not null" json:"visitor_token"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	Path        string  `json:"path"`
	Referrer    *string `json:"referrer,omitempty"`
	Language    *string `json:"language,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	Screen      *string `json:"screen,omitempty"`
	DeviceType  string  `json:"device_type"`
	UTMSource   *string `gorm:"column:utm_source" json:"utm_source,omitempty"`
	UTMMedium   *string `gorm:"column:utm_medium" json:"utm_medium,omitempty"`
	UTMCampaign *string `gorm:"column:utm_campaign" json:"utm_campaign,omitempty"`
	UTMTerm     *string `gorm:"column:utm_term" json:"utm_term,omitempty"`
	UTMContent  *string `gorm:"column:utm_content" json:"utm_content,omitempty"`
}

func (VisitEvent) TableName() string { return "site_visit_events" }

func (v *VisitEvent) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type ProjectView struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    string    `gorm:"type:uuid;index:idx_project_views_project_visitor,priority:1;not null" json:"project_id"`
	VisitorToken string    `gorm:"type:text;index:idx_project_views_project_visitor,priority:2;not null" json:"visitor_token"`
	ViewedAt     time.Time `json:"viewed_at"`
}

func (ProjectView) TableName() string { return "project_views" }

type ProjectViewStat struct {
	ProjectID      string    `gorm:"type:uuid;primaryKey" json:"project_id"`
	ViewsCount     int       `gorm:"not null;default:0" json:"views_count"`
	UniqueVisitors int       `gorm:"not null;default:0" json:"unique_visitors"`
	LastViewedAt   time.Time `json:"last_viewed_at"`
}

func (ProjectViewStat) TableName() string { return "project_view_stats" }

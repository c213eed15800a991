package settings

import (
	"time"

	"makani-studio/internal/domain/i18n"
)

// AppSettings is the single site configuration row.
type AppSettings struct {
	Key string `gorm:"type:text;primaryKey" json:"-"`

	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	AddressLine i18n.LocalizedText `gorm:"type:text" json:"address_line"`
	City        i18n.LocalizedText `gorm:"type:text" json:"city"`
	District    i18n.LocalizedText `gorm:"type:text" json:"district"`
	Country     i18n.LocalizedText `gorm:"type:text" json:"country"`

	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	GoogleMapsURL string   `gorm:"column:google_maps_url" json:"google_maps_url"`

	FacebookURL string `gorm:"column:facebook_url" json:"facebook_url"`
	YoutubeURL  string `gorm:"column:youtube_url" json:"youtube_url"`
	LinkedinURL string `gorm:"column:linkedin_url" json:"linkedin_url"`
	TiktokURL   string `gorm:"column:tiktok_url" json:"tiktok_url"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (AppSettings) TableName() string { return "app_settings" }

// Public is the settings view for one language.
type Public struct {
	ContactEmail  string   `json:"contact_email"`
	ContactPhone  string   `json:"contact_phone"`
	AddressLine   string   `json:"address_line"`
	City          string   `json:"city"`
	District      string   `json:"district"`
	Country       string   `json:"country"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	GoogleMapsURL string   `json:"google_maps_url"`
	FacebookURL   string   `json:"facebook_url"`
	YoutubeURL    string   `json:"youtube_url"`
	LinkedinURL   string   `json:"linkedin_url"`
	TiktokURL     string   `json:"tiktok_url"`
}

func (s AppSettings) Localize(lang i18n.Language) Public {
	return Public{
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
		AddressLine:   s.AddressLine.Pick(lang),
		City:          s.City.Pick(lang),
		District:      s.District.Pick(lang),
		Country:       s.Country.Pick(lang),
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		GoogleMapsURL: s.GoogleMapsURL,
		FacebookURL:   s.FacebookURL,
		YoutubeURL:    s.YoutubeURL,
		LinkedinURL:   s.LinkedinURL,
		TiktokURL:     s.TiktokURL,
	}
}

// CoordinatesInput renders the stored position the way the admin form
// expects it back.
func (s AppSettings) CoordinatesInput() string {
	if s.Latitude == nil || s.Longitude == nil {
		return ""
	}
	return Coordinates{Lat: *s.Latitude, Lng: *s.Longitude}.String()
}

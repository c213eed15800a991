package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// singletonKey identifies the only settings row.
const singletonKey = "default"

// Store is the accessor for the site settings entity.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the stored settings, or empty settings before the first save.
func (s *Store) Get(ctx context.Context) (*AppSettings, error) {
	var out AppSettings
	err := s.db.WithContext(ctx).First(&out, "key = ?", singletonKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppSettings{Key: singletonKey}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &out, nil
}

// Save upserts the settings row.
func (s *Store) Save(ctx context.Context, in *AppSettings) error {
	in.Key = singletonKey
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, UpdateAll: true}).
		Create(in).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

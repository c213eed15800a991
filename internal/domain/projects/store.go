package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"makani-studio/internal/domain/i18n"

	"gorm.io/gorm"
)

// Store persists projects with gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *Project) error {
	p.Version = 1
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update writes p only if the stored version still equals expectedVersion.
func (s *Store) Update(ctx context.Context, p *Project, expectedVersion int) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&Project{}).
		Where("id = ? AND version = ?", p.ID, expectedVersion).
		Updates(map[string]interface{}{
			"category":       p.Category,
			"year":           p.Year,
			"area":           p.Area,
			"cover_image":    p.CoverImage,
			"images":         p.Images,
			"published":      p.Published,
			"title":          p.Title,
			"category_label": p.CategoryLabel,
			"location":       p.Location,
			"description":    p.Description,
			"concept":        p.Concept,
			"status":         p.Status,
			"version":        expectedVersion + 1,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&Project{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}

	var saved Project
	if err := db.First(&saved, "id = ?", p.ID).Error; err != nil {
		return fmt.Errorf("reload project: %w", err)
	}
	*p = saved
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPublished hides unpublished rows behind ErrNotFound.
func (s *Store) GetPublished(ctx context.Context, id string) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListPublished returns published projects whose category is one of
// activeKeys, newest first.
func (s *Store) ListPublished(ctx context.Context, activeKeys []string) ([]Project, error) {
	out := []Project{}
	if len(activeKeys) == 0 {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Where("published = ? AND category IN ?", true, activeKeys).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (s *Store) ListAll(ctx context.Context) ([]Project, error) {
	out := []Project{}
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// Delete removes the row and returns it so its media can be cleaned up.
func (s *Store) Delete(ctx context.Context, id string) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	return p, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Project{}).Count(&n).Error
	return n, err
}

// CategoryLabel copies the label of the category with key. A missing
// category yields an empty label.
func (s *Store) CategoryLabel(ctx context.Context, key string) (i18n.LocalizedText, error) {
	var rows []struct {
		Label i18n.LocalizedText
	}
	err := s.db.WithContext(ctx).
		Table("categories").
		Select("label").
		Where("key = ?", key).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return i18n.LocalizedText{}, fmt.Errorf("category label: %w", err)
	}
	if len(rows) == 0 {
		return i18n.LocalizedText{}, nil
	}
	return rows[0].Label, nil
}

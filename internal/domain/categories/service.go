package categories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"makani-studio/internal/domain/i18n"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("category not found")

// Scope filters the admin list.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeActive   Scope = "active"
	ScopeInactive Scope = "inactive"
)

func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeActive:
		return ScopeActive
	case ScopeInactive:
		return ScopeInactive
	}
	return ScopeAll
}

// Input is the admin form for a category. Label is typed in Language.
type Input struct {
	Label    string
	IsActive bool
	Language i18n.Language
}

type Service struct {
	db         *gorm.DB
	translator i18n.Translator
	log        *zap.Logger
}

func NewService(db *gorm.DB, translator i18n.Translator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, translator: translator, log: log}
}

func (s *Service) all(ctx context.Context) ([]Category, error) {
	var list []Category
	if err := s.db.WithContext(ctx).Order("sort_order asc").Order("key asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Create translates the label, derives a unique key from its EN version and
// appends the category after the current last one.
func (s *Service) Create(ctx context.Context, in Input) (*Category, error) {
	existing, err := s.all(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	maxOrder := 0
	keys := make([]string, 0, len(existing))
	for _, c := range existing {
		if c.SortOrder > maxOrder {
			maxOrder = c.SortOrder
		}
		keys = append(keys, c.Key)
	}

	label := s.translator.TranslateToAll(ctx, in.Label, sourceLanguage(in.Language))
	c := Category{
		Key:       UniqueKey(label.EN, keys),
		Label:     label,
		SortOrder: maxOrder + 10,
		IsActive:  in.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	// a false bool is a zero value, so the insert used the column default
	if !in.IsActive {
		if err := s.db.WithContext(ctx).Model(&c).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		c.IsActive = false
	}
	return &c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	var c Category
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update keeps the key and sort order. The label is only re-translated when
// it differs from the stored value in the editing language.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lang := sourceLanguage(in.Language)
	next := strings.TrimSpace(in.Label)
	label := c.Label.Normalize()
	if next != strings.TrimSpace(c.Label.Pick(lang)) {
		label = s.translator.TranslateToAll(ctx, in.Label, lang)
	}

	err = s.db.WithContext(ctx).Model(c).Updates(map[string]interface{}{
		"label":     label,
		"is_active": in.IsActive,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	c.Label = label
	c.IsActive = in.IsActive
	return c, nil
}

func (s *Service) Toggle(ctx context.Context, id string) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = !c.IsActive
	if err := s.db.WithContext(ctx).Model(c).Update("is_active", c.IsActive).Error; err != nil {
		return nil, fmt.Errorf("toggle category: %w", err)
	}
	return c, nil
}

// Delete does not touch projects; rows pointing at the removed key drop out
// of the public listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	return s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Update("sort_order", sortOrder).Error
}

// Move reorders the full list and returns it in its final state, which is
// the previous order when a write failed.
func (s *Service) Move(ctx context.Context, id string, dir Direction) ([]Category, error) {
	list, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	board := NewBoard(list)
	err = board.Move(ctx, id, dir, s)
	if err != nil {
		s.log.Warn("move category", zap.String("id", id), zap.String("direction", string(dir)), zap.Error(err))
	}
	return board.Items(), err
}

// List is the admin view. q matches the key, any label or the sort order.
func (s *Service) List(ctx context.Context, scope Scope, q string) ([]Category, error) {
	list, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]Category, 0, len(list))
	for _, c := range list {
		if scope == ScopeActive && !c.IsActive {
			continue
		}
		if scope == ScopeInactive && c.IsActive {
			continue
		}
		if needle != "" && !matches(c, needle) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func matches(c Category, needle string) bool {
	for _, field := range []string{c.Key, c.Label.EN, c.Label.FR, c.Label.AR, strconv.Itoa(c.SortOrder)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// ListActive is the public listing ordered by (sort_order, created_at).
func (s *Service) ListActive(ctx context.Context) ([]Category, error) {
	list := []Category{}
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order asc").
		Order("created_at asc").
		Find(&list).Error
	return list, err
}

func (s *Service) ActiveKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&Category{}).Where("is_active = ?", true).Pluck("key", &keys).Error
	return keys, err
}

func sourceLanguage(lang i18n.Language) i18n.Language {
	if l, ok := i18n.ParseLanguage(string(lang)); ok {
		return l
	}
	return i18n.EN
}

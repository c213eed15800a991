package categories

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", errors.New("direction must be up or down")
}

// Sort orders categories by (sort_order, key).
func Sort(list []Category) {
	slices.SortStableFunc(list, func(a, b Category) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return strings.Compare(a.Key, b.Key)
	})
}

// Reorder swaps the category with its neighbour and renumbers the whole list
// as (index+1)*10. It returns the new list and the rows whose sort order
// changed. Unknown ids and moves past either end return nil.
func Reorder(list []Category, id string, dir Direction) ([]Category, []Category) {
	sorted := slices.Clone(list)
	Sort(sorted)

	idx := slices.IndexFunc(sorted, func(c Category) bool { return c.ID == id })
	if idx < 0 {
		return nil, nil
	}
	target := idx + 1
	if dir == Up {
		target = idx - 1
	}
	if target < 0 || target >= len(sorted) {
		return nil, nil
	}

	before := make(map[string]int, len(sorted))
	for _, c := range sorted {
		before[c.ID] = c.SortOrder
	}

	sorted[idx], sorted[target] = sorted[target], sorted[idx]
	var changed []Category
	for i := range sorted {
		sorted[i].SortOrder = (i + 1) * 10
		if prev, ok := before[sorted[i].ID]; !ok || prev != sorted[i].SortOrder {
			changed = append(changed, sorted[i])
		}
	}
	return sorted, changed
}

// SortOrderUpdater persists one row's sort order.
type SortOrderUpdater interface {
	UpdateSortOrder(ctx context.Context, id string, sortOrder int) error
}

// Board is an in-memory ordered category list kept in sync with the store
// optimistically.
type Board struct {
	mu    sync.Mutex
	items []Category
}

func NewBoard(items []Category) *Board {
	list := slices.Clone(items)
	Sort(list)
	return &Board{items: list}
}

func (b *Board) Items() []Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

// Move applies the reorder in memory, then sends one update per changed row
// concurrently. Rows are written independently; if any write fails the list
// goes back to its previous state and the first error is returned.
func (b *Board) Move(ctx context.Context, id string, dir Direction, up SortOrderUpdater) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, changed := Reorder(b.items, id, dir)
	if next == nil {
		return nil
	}
	previous := b.items
	b.items = next

	var g errgroup.Group
	for _, c := range changed {
		c := c
		g.Go(func() error {
			return up.UpdateSortOrder(ctx, c.ID, c.SortOrder)
		})
	}
	if err := g.Wait(); err != nil {
		b.items = previous
		return err
	}
	return nil
}

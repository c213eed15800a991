package analytics

import (
	"context"
	"fmt"
	"time"

	"makani-studio/internal/domain/i18n"

	"gorm.io/gorm"
)

// Fetch caps for one snapshot.
const (
	SummaryRows     = 5000
	EventRows       = 5000
	RecentRows      = 120
	RecentEventRows = 40
	TopProjectRows  = 8
)

type TopProject struct {
	ProjectID string             `json:"project_id"`
	Title     i18n.LocalizedText `json:"title"`
	Visits    int                `json:"visits"`
}

type Snapshot struct {
	Summary      Summary        `json:"summary"`
	Recent       []VisitSession `json:"recentVisitors"`
	RecentEvents []VisitEvent   `json:"recentEvents"`
	TopProjects  []TopProject   `json:"topProjects"`
}

// Reports reads the analytics tables for the admin console.
type Reports struct {
	db *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

func (r *Reports) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	db := r.db.WithContext(ctx)

	var unique int64
	if err := db.Model(&VisitSession{}).Count(&unique).Error; err != nil {
		return nil, fmt.Errorf("count visitors: %w", err)
	}

	var sessions []VisitSession
	if err := db.Order("last_seen_at desc").Limit(SummaryRows).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("load visitors: %w", err)
	}

	var events []VisitEvent
	if err := db.Order("created_at desc").Limit(EventRows).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load visit events: %w", err)
	}

	top, err := r.topProjects(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Summary:      Aggregate(Input{Events: events, Sessions: sessions, UniqueVisitors: unique}, now),
		Recent:       head(sessions, RecentRows),
		RecentEvents: head(events, RecentEventRows),
		TopProjects:  top,
	}
	return snap, nil
}

func (r *Reports) topProjects(ctx context.Context) ([]TopProject, error) {
	db := r.db.WithContext(ctx)

	var stats []ProjectViewStat
	if err := db.Order("views_count desc").Limit(TopProjectRows).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("load project view stats: %w", err)
	}
	if len(stats) == 0 {
		return []TopProject{}, nil
	}

	ids := make([]string, len(stats))
	for i, s := range stats {
		ids[i] = s.ProjectID
	}
	var rows []struct {
		ID    string
		Title i18n.LocalizedText
	}
	if err := db.Table("projects").Select("id, title").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load project titles: %w", err)
	}
	titles := make(map[string]i18n.LocalizedText, len(rows))
	for _, row := range rows {
		titles[row.ID] = row.Title
	}

	out := make([]TopProject, 0, len(stats))
	for _, s := range stats {
		out = append(out, TopProject{ProjectID: s.ProjectID, Title: titles[s.ProjectID], Visits: s.ViewsCount})
	}
	return out, nil
}

// VisitorCounts returns all visitors and those first seen since monthStart.
func (r *Reports) VisitorCounts(ctx context.Context, monthStart time.Time) (total, thisMonth int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&VisitSession{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.Model(&VisitSession{}).Where("first_seen_at >= ?", monthStart).Count(&thisMonth).Error
	return total, thisMonth, err
}

// MonthStart is midnight on the first day of now's month, in now's location.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

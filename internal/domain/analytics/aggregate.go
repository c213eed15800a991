package analytics

import (
	"sort"
	"time"
)

const (
	DefaultTopPaths = 10
	day             = 24 * time.Hour
)

type PathCount struct {
	Path   string `json:"path"`
	Visits int    `json:"visits"`
}

// Input is a bounded, point-in-time window of rows. UniqueVisitors comes
// from an exact count query since the windows are capped.
type Input struct {
	Events         []VisitEvent
	Sessions       []VisitSession
	UniqueVisitors int64
	TopN           int
}

type Summary struct {
	UniqueVisitors          int64       `json:"uniqueVisitors"`
	TotalVisits             int         `json:"totalVisits"`
	VisitsLast24h           int         `json:"visitsLast24h"`
	UniqueVisitorsLast24h   int         `json:"uniqueVisitorsLast24h"`
	UniqueVisitorsLast7d    int         `json:"uniqueVisitorsLast7d"`
	ActiveVisitors24h       int         `json:"activeVisitors24h"`
	ActiveVisitors7d        int         `json:"activeVisitors7d"`
	NewVisitors7d           int         `json:"newVisitors7d"`
	AverageVisitsPerVisitor float64     `json:"averageVisitsPerVisitor"`
	TopPaths                []PathCount `json:"topPaths"`
}

// Aggregate reduces the window into dashboard counters.
func Aggregate(in Input, now time.Time) Summary {
	since24h := now.Add(-day)
	since7d := now.Add(-7 * day)

	out := Summary{UniqueVisitors: in.UniqueVisitors}

	hist := map[string]int{}
	tokens24h := map[string]struct{}{}
	tokens7d := map[string]struct{}{}
	for _, e := range in.Events {
		hist[e.Path]++
		if !e.CreatedAt.Before(since7d) {
			tokens7d[e.VisitorToken] = struct{}{}
		}
		if !e.CreatedAt.Before(since24h) {
			tokens24h[e.VisitorToken] = struct{}{}
			out.VisitsLast24h++
		}
	}
	out.UniqueVisitorsLast24h = len(tokens24h)
	out.UniqueVisitorsLast7d = len(tokens7d)

	for _, s := range in.Sessions {
		out.TotalVisits += s.VisitsCount
		if !s.LastSeenAt.Before(since24h) {
			out.ActiveVisitors24h++
		}
		if !s.LastSeenAt.Before(since7d) {
			out.ActiveVisitors7d++
		}
		if !s.FirstSeenAt.Before(since7d) {
			out.NewVisitors7d++
		}
	}
	if in.UniqueVisitors > 0 {
		out.AverageVisitsPerVisitor = float64(out.TotalVisits) / float64(in.UniqueVisitors)
	}

	out.TopPaths = topPaths(hist, in.TopN)
	return out
}

func topPaths(hist map[string]int, n int) []PathCount {
	if n <= 0 {
		n = DefaultTopPaths
	}
	paths := make([]PathCount, 0, len(hist))
	for p, c := range hist {
		paths = append(paths, PathCount{Path: p, Visits: c})
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Visits != paths[j].Visits {
			return paths[i].Visits > paths[j].Visits
		}
		return paths[i].Path < paths[j].Path
	})
	if len(paths) > n {
		paths = paths[:n]
	}
	return paths
}

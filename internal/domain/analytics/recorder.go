package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ThrottleWindow is how long the same (token, path) pair is ignored after
// it was recorded.
const ThrottleWindow = 5 * time.Minute

// Throttle grants a key at most once per window.
type Throttle interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

type UTM struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Term     string `json:"term"`
	Content  string `json:"content"`
}

// Visit is one page view as reported by a browser. Token must already be
// resolved with ResolveToken.
type Visit struct {
	Token     string
	Path      string
	Referrer  string
	Language  string
	Timezone  string
	Screen    string
	UTM       UTM
	UserAgent string
	IP        string
}

// Result is the body of every tracking response.
type Result struct {
	Tracked bool   `json:"tracked"`
	Reason  string `json:"reason,omitempty"`
}

type Recorder struct {
	db       *gorm.DB
	throttle Throttle
	salt     string
	now      func() time.Time
	log      *zap.Logger
}

func NewRecorder(db *gorm.DB, throttle Throttle, salt string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{db: db, throttle: throttle, salt: salt, now: time.Now, log: log}
}

// RecordVisit upserts the visitor session and appends an event.
func (r *Recorder) RecordVisit(ctx context.Context, v Visit) (Result, error) {
	path := "/"
	if p := SanitizeText(v.Path, MaxPath); p != nil {
		path = *p
	}

	if r.throttle != nil {
		ok, err := r.throttle.Allow(ctx, "visit:"+v.Token+":"+path, ThrottleWindow)
		if err != nil {
			r.log.Warn("visit throttle unavailable", zap.Error(err))
		} else if !ok {
			return Result{Tracked: false, Reason: "throttled"}, nil
		}
	}

	now := r.now().UTC()
	device := string(ClassifyDevice(v.UserAgent))
	referrer := SanitizeText(v.Referrer, MaxReferrer)
	lang := SanitizeText(v.Language, MaxLanguage)
	tz := SanitizeText(v.Timezone, MaxTimezone)
	screen := SanitizeText(v.Screen, MaxScreen)
	utm := [5]*string{
		SanitizeText(v.UTM.Source, MaxUTM),
		SanitizeText(v.UTM.Medium, MaxUTM),
		SanitizeText(v.UTM.Campaign, MaxUTM),
		SanitizeText(v.UTM.Term, MaxUTM),
		SanitizeText(v.UTM.Content, MaxUTM),
	}
	var ua *string
	if v.UserAgent != "" {
		ua = &v.UserAgent
	}
	ipHash := HashIP(v.IP, r.salt)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session VisitSession
		err := tx.Where("visitor_token = ?", v.Token).First(&session).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			session = VisitSession{
				VisitorToken:    v.Token,
				FirstSeenAt:     now,
				LastSeenAt:      now,
				VisitsCount:     1,
				LastPath:        path,
				UserAgent:       ua,
				LastReferrer:    referrer,
				LastLanguage:    lang,
				LastTimezone:    tz,
				LastScreen:      screen,
				LastUTMSource:   utm[0],
				LastUTMMedium:   utm[1],
				LastUTMCampaign: utm[2],
				LastUTMTerm:     utm[3],
				LastUTMContent:  utm[4],
				IPHash:          ipHash,
				DeviceType:      device,
			}
			if err := tx.Create(&session).Error; err != nil {
				return fmt.Errorf("insert visit session: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load visit session: %w", err)
		default:
			err := tx.Model(&VisitSession{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
				"last_seen_at":      now,
				"last_path":         path,
				"user_agent":        ua,
				"last_referrer":     referrer,
				"last_language":     lang,
				"last_timezone":     tz,
				"last_screen":       screen,
				"last_utm_source":   utm[0],
				"last_utm_medium":   utm[1],
				"last_utm_campaign": utm[2],
				"last_utm_term":     utm[3],
				"last_utm_content":  utm[4],
				"ip_hash":           ipHash,
				"device_type":       device,
				"visits_count":      gorm.Expr("visits_count + ?", 1),
			}).Error
			if err != nil {
				return fmt.Errorf("update visit session: %w", err)
			}
		}

		event := VisitEvent{
			VisitorToken: v.Token,
			CreatedAt:    now,
			Path:         path,
			Referrer:     referrer,
			Language:     lang,
			Timezone:     tz,
			Screen:       screen,
			DeviceType:   device,
			UTMSource:    utm[0],
			UTMMedium:    utm[1],
			UTMCampaign:  utm[2],
			UTMTerm:      utm[3],
			UTMContent:   utm[4],
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("insert visit event: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Tracked: true}, nil
}

// RecordProjectView appends a view and bumps the per-project counters. The
// unique counter only moves on the token's first view of the project.
func (r *Recorder) RecordProjectView(ctx context.Context, projectID, token string) (Result, error) {
	id, ok := ValidProjectID(projectID)
	if !ok {
		return Result{Tracked: false, Reason: "invalid_project_id"}, nil
	}
	now := r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&ProjectView{}).
			Where("project_id = ? AND visitor_token = ?", id, token).
			Count(&seen).Error; err != nil {
			return err
		}
		if err := tx.Create(&ProjectView{ProjectID: id, VisitorToken: token, ViewedAt: now}).Error; err != nil {
			return fmt.Errorf("insert project view: %w", err)
		}
		unique := 0
		if seen == 0 {
			unique = 1
		}

		res := tx.Model(&ProjectViewStat{}).Where("project_id = ?", id).Updates(map[string]interface{}{
			"views_count":     gorm.Expr("views_count + ?", 1),
			"unique_visitors": gorm.Expr("unique_visitors + ?", unique),
			"last_viewed_at":  now,
		})
		if res.Error != nil {
			return fmt.Errorf("update project view stats: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&ProjectViewStat{ProjectID: id, ViewsCount: 1, UniqueVisitors: 1, LastViewedAt: now}).Error
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Tracked: true}, nil
}

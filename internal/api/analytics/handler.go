package analytics

import (
	"net/http"
	"time"

	"makani-studio/internal/domain/analytics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler records site visits and serves the visitor reports.
type Handler struct {
	recorder *analytics.Recorder
	reports  *analytics.Reports
	secure   bool
	log      *zap.Logger
	now      func() time.Time
}

func NewHandler(recorder *analytics.Recorder, reports *analytics.Reports, secureCookies bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{recorder: recorder, reports: reports, secure: secureCookies, log: log, now: time.Now}
}

// RegisterRoutes mounts the tracking endpoints on the public group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/analytics")
	g.POST("/visit", h.visit)
	g.POST("/project-view", h.projectView)
}

// RegisterAdminRoutes mounts the reports on the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/visitors", h.visitors)
}

type visitRequest struct {
	Path         string         `json:"path"`
	VisitorToken string         `json:"visitorToken"`
	Referrer     string         `json:"referrer"`
	Language     string         `json:"language"`
	Timezone     string         `json:"timezone"`
	Screen       string         `json:"screen"`
	UTM          *analytics.UTM `json:"utm"`
}

// visitorToken reuses a valid cookie, else a valid client token, else mints
// one. The cookie is refreshed on every call.
func (h *Handler) visitorToken(c *gin.Context, client string) string {
	cookie, _ := c.Cookie(analytics.VisitorCookie)
	if t, ok := analytics.SanitizeToken(cookie); ok {
		cookie = t
	} else {
		cookie = ""
	}
	token := analytics.ResolveToken(cookie, client)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(analytics.VisitorCookie, token, analytics.VisitorCookieAge, "/", "", h.secure, true)
	return token
}

// ------------------------------
// POST /analytics/visit
// Tracking never fails the page: every outcome answers 202.
// ------------------------------
func (h *Handler) visit(c *gin.Context) {
	var req visitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Debug("visit body ignored", zap.Error(err))
			req = visitRequest{}
		}
	}
	if req.Path == "" {
		req.Path = c.Query("path")
	}

	v := analytics.Visit{
		Token:     h.visitorToken(c, req.VisitorToken),
		Path:      req.Path,
		Referrer:  req.Referrer,
		Language:  req.Language,
		Timezone:  req.Timezone,
		Screen:    req.Screen,
		UserAgent: c.GetHeader("User-Agent"),
		IP:        analytics.ClientIP(c.GetHeader, c.RemoteIP()),
	}
	if v.Referrer == "" {
		v.Referrer = c.GetHeader("Referer")
	}
	if req.UTM != nil {
		v.UTM = *req.UTM
	}

	res, err := h.recorder.RecordVisit(c.Request.Context(), v)
	if err != nil {
		h.log.Warn("record visit", zap.String("path", v.Path), zap.Error(err))
		c.JSON(http.StatusAccepted, analytics.Result{Tracked: false, Reason: "storage_error"})
		return
	}
	c.JSON(http.StatusAccepted, res)
}

// ------------------------------
// POST /analytics/project-view
// ------------------------------
func (h *Handler) projectView(c *gin.Context) {
	var req struct {
		ProjectID    string `json:"projectId"`
		VisitorToken string `json:"visitorToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusAccepted, analytics.Result{Tracked: false, Reason: "invalid_body"})
		return
	}
	token := h.visitorToken(c, req.VisitorToken)

	res, err := h.recorder.RecordProjectView(c.Request.Context(), req.ProjectID, token)
	if err != nil {
		h.log.Warn("record project view", zap.String("project_id", req.ProjectID), zap.Error(err))
		c.JSON(http.StatusAccepted, analytics.Result{Tracked: false, Reason: "storage_error"})
		return
	}
	c.JSON(http.StatusAccepted, res)
}

// ------------------------------
// GET /admin/visitors
// ------------------------------
func (h *Handler) visitors(c *gin.Context) {
	snap, err := h.reports.Snapshot(c.Request.Context(), h.now())
	if err != nil {
		h.log.Error("visitor snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visitors", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

package admin

import (
	"net/http"
	"time"

	"makani-studio/internal/domain/analytics"
	"makani-studio/internal/domain/inquiries"
	"makani-studio/internal/domain/projects"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LatestInquiries is how many inquiries the dashboard previews.
const LatestInquiries = 5

type DashboardStats struct {
	Projects           int64               `json:"projects"`
	Inquiries          int64               `json:"inquiries"`
	CompletedInquiries int64               `json:"completed_inquiries"`
	Visitors           int64               `json:"visitors"`
	VisitorsThisMonth  int64               `json:"visitors_this_month"`
	LatestInquiries    []inquiries.Inquiry `json:"latest_inquiries"`
}

type Handler struct {
	projects  *projects.Store
	inquiries *inquiries.Service
	reports   *analytics.Reports
	now       func() time.Time
	log       *zap.Logger
}

func NewHandler(store *projects.Store, inq *inquiries.Service, reports *analytics.Reports, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{projects: store, inquiries: inq, reports: reports, now: time.Now, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
}

// ------------------------------
// GET /admin/dashboard
// ------------------------------
func (h *Handler) dashboard(c *gin.Context) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() (err error) {
		stats.Projects, err = h.projects.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Inquiries, stats.CompletedInquiries, err = h.inquiries.Counts(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.LatestInquiries, err = h.inquiries.Latest(ctx, LatestInquiries)
		return err
	})
	g.Go(func() (err error) {
		stats.Visitors, stats.VisitorsThisMonth, err = h.reports.VisitorCounts(ctx, analytics.MonthStart(h.now()))
		return err
	})

	if err := g.Wait(); err != nil {
		h.log.Error("dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

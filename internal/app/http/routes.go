package routes

import (
	"net/http"

	adminapi "makani-studio/internal/api/admin"
	analyticsapi "makani-studio/internal/api/analytics"
	authapi "makani-studio/internal/api/auth"
	categoriesapi "makani-studio/internal/api/categories"
	inquiriesapi "makani-studio/internal/api/inquiries"
	mediaapi "makani-studio/internal/api/media"
	projectsapi "makani-studio/internal/api/projects"
	publicapi "makani-studio/internal/api/public"
	settingsapi "makani-studio/internal/api/settings"
	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired handlers into the router.
type Deps struct {
	JWTSecret       string
	Labels          *i18n.Store
	DefaultLanguage i18n.Language

	Public     *publicapi.Handler
	Analytics  *analyticsapi.Handler
	Inquiries  *inquiriesapi.Handler
	Auth       *authapi.Handler
	Admin      *adminapi.Handler
	Categories *categoriesapi.Handler
	Projects   *projectsapi.Handler
	Settings   *settingsapi.Handler

	// Media is nil when files are served by the bucket.
	Media *mediaapi.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Media != nil {
		d.Media.RegisterRoutes(r)
	}

	api := r.Group("/api")
	api.Use(middleware.Language(d.Labels, d.DefaultLanguage))

	// Public site
	d.Public.RegisterRoutes(api)
	d.Analytics.RegisterRoutes(api)
	d.Inquiries.RegisterRoutes(api)

	authMW := middleware.AuthMiddleware(d.JWTSecret)
	d.Auth.RegisterRoutes(api, authMW)

	// Admin console
	admin := api.Group("/admin")
	admin.Use(authMW, middleware.RequireRole(users.RoleAdmin))
	d.Admin.RegisterRoutes(admin)
	d.Auth.RegisterAdminRoutes(admin)
	d.Categories.RegisterRoutes(admin)
	d.Projects.RegisterRoutes(admin)
	d.Inquiries.RegisterAdminRoutes(admin)
	d.Settings.RegisterRoutes(admin)
	d.Analytics.RegisterAdminRoutes(admin)
}

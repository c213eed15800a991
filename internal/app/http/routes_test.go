package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adminapi "makani-studio/internal/api/admin"
	analyticsapi "makani-studio/internal/api/analytics"
	authapi "makani-studio/internal/api/auth"
	categoriesapi "makani-studio/internal/api/categories"
	inquiriesapi "makani-studio/internal/api/inquiries"
	mediaapi "makani-studio/internal/api/media"
	projectsapi "makani-studio/internal/api/projects"
	publicapi "makani-studio/internal/api/public"
	settingsapi "makani-studio/internal/api/settings"
	"makani-studio/database"
	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/analytics"
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/inquiries"
	"makani-studio/internal/domain/media"
	"makani-studio/internal/domain/projects"
	"makani-studio/internal/domain/settings"
	"makani-studio/internal/domain/users"
	"makani-studio/internal/infra/cache"
	"makani-studio/internal/infra/storage"
	"makani-studio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-secret"

func setup(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t, database.Models()...)
	labels := i18n.MustLoadStore()

	store := projects.NewStore(db)
	mem := storage.NewMemory("http://localhost:8080/media", "projects")
	bucket := media.NewBucket(mem)
	cats := categories.NewService(db, nil, nil)
	st := settings.NewService(settings.NewStore(db), nil, nil, nil)
	inq := inquiries.NewService(db, nil, nil)
	reports := analytics.NewReports(db)

	r := gin.New()
	RegisterRoutes(r, Deps{
		JWTSecret:       secret,
		Labels:          labels,
		DefaultLanguage: i18n.EN,
		Public:          publicapi.NewHandler(cats, store, st, false, nil),
		Analytics:       analyticsapi.NewHandler(analytics.NewRecorder(db, cache.NewMemoryThrottle(), "salt", nil), reports, false, nil),
		Inquiries:       inquiriesapi.NewHandler(inq, nil),
		Auth:            authapi.NewHandler(users.NewService(db, nil, nil), secret, nil, nil),
		Admin:           adminapi.NewHandler(store, inq, reports, nil),
		Categories:      categoriesapi.NewHandler(cats, nil),
		Projects:        projectsapi.NewHandler(store, projects.NewWorkflow(store, nil, bucket, bucket, nil), bucket, labels, nil),
		Settings:        settingsapi.NewHandler(st, nil),
		Media:           mediaapi.NewHandler(mem),
	})
	return r
}

func call(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestPublicRoutes(t *testing.T) {
	r := setup(t)
	for _, path := range []string{"/health", "/api/categories", "/api/projects", "/api/settings", "/api/language"} {
		assert.Equal(t, http.StatusOK, call(r, path, ""), path)
	}
	assert.Equal(t, http.StatusNotFound, call(r, "/media/projects/missing.jpg", ""))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r := setup(t)
	paths := []string{
		"/api/admin/dashboard", "/api/admin/categories", "/api/admin/projects",
		"/api/admin/inquiries", "/api/admin/settings", "/api/admin/visitors",
	}

	for _, path := range paths {
		assert.Equal(t, http.StatusUnauthorized, call(r, path, ""), path)
	}

	editor, err := middleware.SignToken(secret, 7, "editor@makani.mr", "editor", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call(r, "/api/admin/dashboard", editor))

	admin, err := middleware.SignToken(secret, 1, "admin@makani.mr", users.RoleAdmin, time.Hour)
	require.NoError(t, err)
	for _, path := range paths {
		assert.Equal(t, http.StatusOK, call(r, path, admin), path)
	}
}

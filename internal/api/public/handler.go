package public

import (
	"errors"
	"net/http"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/projects"
	"makani-studio/internal/domain/settings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the read-only site content.
type Handler struct {
	categories *categories.Service
	projects   *projects.Store
	settings   *settings.Service
	secure     bool
	log        *zap.Logger
}

func NewHandler(cats *categories.Service, store *projects.Store, st *settings.Service, secureCookies bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{categories: cats, projects: store, settings: st, secure: secureCookies, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listCategories)
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/:id", h.getProject)
	rg.GET("/settings", h.getSettings)
	rg.GET("/language", h.getLanguage)
	rg.PUT("/language", h.setLanguage)
}

// ------------------------------
// GET /categories
// ------------------------------
func (h *Handler) listCategories(c *gin.Context) {
	list, err := h.categories.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error("list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories", "details": err.Error()})
		return
	}
	lc := middleware.LanguageFrom(c)
	out := make([]categoryDTO, 0, len(list))
	for _, cat := range list {
		out = append(out, toCategoryDTO(cat, lc.Lang))
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// ------------------------------
// GET /projects
// Published projects whose category is active, newest first.
// ------------------------------
func (h *Handler) listProjects(c *gin.Context) {
	ctx := c.Request.Context()
	keys, err := h.categories.ActiveKeys(ctx)
	if err != nil {
		h.log.Error("load active categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects", "details": err.Error()})
		return
	}
	list, err := h.projects.ListPublished(ctx, keys)
	if err != nil {
		h.log.Error("list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects", "details": err.Error()})
		return
	}
	lc := middleware.LanguageFrom(c)
	out := make([]projectDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectDTO(p, lc))
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

// ------------------------------
// GET /projects/:id
// ------------------------------
func (h *Handler) getProject(c *gin.Context) {
	p, err := h.projects.GetPublished(c.Request.Context(), c.Param("id"))
	if errors.Is(err, projects.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		h.log.Error("get project", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": toProjectDTO(*p, middleware.LanguageFrom(c))})
}

// ------------------------------
// GET /settings
// ------------------------------
func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		h.log.Error("load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": s.Localize(middleware.LanguageFrom(c).Lang)})
}

// ------------------------------
// GET|PUT /language
// ------------------------------
func (h *Handler) getLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, toLanguageDTO(middleware.LanguageFrom(c)))
}

func (h *Handler) setLanguage(c *gin.Context) {
	var body struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	lang, ok := i18n.ParseLanguage(body.Language)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_language"})
		return
	}
	lc := middleware.LanguageFrom(c).WithLanguage(lang)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i18n.CookieName, string(lang), i18n.CookieMaxAge, "/", "", h.secure, false)
	c.JSON(http.StatusOK, toLanguageDTO(lc))
}

package categories

import (
	"errors"
	"net/http"
	"strings"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the admin category editor.
type Handler struct {
	svc *categories.Service
	log *zap.Logger
}

func NewHandler(svc *categories.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/toggle", h.toggle)
	g.POST("/:id/move", h.move)
	g.DELETE("/:id", h.remove)
}

type categoryRequest struct {
	Label    string `json:"label" binding:"required"`
	IsActive *bool  `json:"is_active"`
	Language string `json:"language"`
}

func (r categoryRequest) input(c *gin.Context) categories.Input {
	in := categories.Input{Label: strings.TrimSpace(r.Label), IsActive: true, Language: middleware.LanguageFrom(c).Lang}
	if r.IsActive != nil {
		in.IsActive = *r.IsActive
	}
	if lang, ok := i18n.ParseLanguage(r.Language); ok {
		in.Language = lang
	}
	return in
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, categories.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	h.log.Error(msg, zap.String("id", c.Param("id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
}

// ------------------------------
// GET /categories?scope=all|active|inactive&q=
// ------------------------------
func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), categories.ParseScope(c.Query("scope")), c.Query("q"))
	if err != nil {
		h.fail(c, "Failed to load categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *Handler) get(c *gin.Context) {
	cat, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to load category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// ------------------------------
// POST /categories
// ------------------------------
func (h *Handler) create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Label) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), req.input(c))
	if err != nil {
		h.fail(c, "Failed to create category", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

// ------------------------------
// PUT /categories/:id
// ------------------------------
func (h *Handler) update(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Label) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.input(c))
	if err != nil {
		h.fail(c, "Failed to update category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *Handler) toggle(c *gin.Context) {
	cat, err := h.svc.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to update category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// ------------------------------
// POST /categories/:id/move {"direction":"up"|"down"}
// Answers with the whole list, in its previous order when a write failed.
// ------------------------------
func (h *Handler) move(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction is required"})
		return
	}
	dir, err := categories.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.svc.Get(ctx, c.Param("id")); err != nil {
		h.fail(c, "Failed to move category", err)
		return
	}

	list, err := h.svc.Move(ctx, c.Param("id"), dir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move category", "details": err.Error(), "categories": list})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "Failed to delete category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

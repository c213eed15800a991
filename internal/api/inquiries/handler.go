package inquiries

import (
	"errors"
	"net/http"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/inquiries"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc *inquiries.Service
	log *zap.Logger
}

func NewHandler(svc *inquiries.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the contact form. Bodies are sanitized first.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiries", middleware.SanitizeAndCleanInputMiddleware(), h.submit)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/inquiries")
	g.GET("", h.list)
	g.PATCH("/:id/status", h.updateStatus)
}

type submitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// ------------------------------
// POST /inquiries
// ------------------------------
func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		lang = middleware.LanguageFrom(c).Lang
	}

	inq, err := h.svc.Submit(c.Request.Context(), inquiries.Submission{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Language: lang,
	})
	if errors.Is(err, inquiries.ErrIncomplete) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	if err != nil {
		h.log.Error("submit inquiry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to send your message. Please try again later."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": inq.ID})
}

// ------------------------------
// GET /admin/inquiries?status=
// ------------------------------
func (h *Handler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.log.Error("list inquiries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inquiries", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": list})
}

// ------------------------------
// PATCH /admin/inquiries/:id/status {"status":"read"}
// ------------------------------
func (h *Handler) updateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	_ = c.ShouldBindJSON(&req)
	status, ok := inquiries.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		return
	}

	inq, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, inquiries.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
		return
	}
	if err != nil {
		h.log.Error("update inquiry status", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inquiry", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inq})
}

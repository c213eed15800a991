package settings

import (
	"errors"
	"net/http"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/settings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler edits the site settings.
type Handler struct {
	svc *settings.Service
	log *zap.Logger
}

func NewHandler(svc *settings.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.get)
	rg.PUT("/settings", h.update)
}

type settingsResponse struct {
	*settings.AppSettings
	Coordinates string `json:"coordinates"`
}

type settingsRequest struct {
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Coordinates  string `json:"coordinates" binding:"required"`
	FacebookURL  string `json:"facebook_url"`
	YoutubeURL   string `json:"youtube_url"`
	LinkedinURL  string `json:"linkedin_url"`
	TiktokURL    string `json:"tiktok_url"`
	Language     string `json:"language"`
}

// ------------------------------
// GET /admin/settings
// ------------------------------
func (h *Handler) get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context())
	if err != nil {
		h.log.Error("load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse{AppSettings: s, Coordinates: s.CoordinatesInput()}})
}

// ------------------------------
// PUT /admin/settings
// ------------------------------
func (h *Handler) update(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": settings.ErrInvalidCoordinates.Error()})
		return
	}
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		lang = middleware.LanguageFrom(c).Lang
	}

	s, err := h.svc.UpdateProfile(c.Request.Context(), settings.Profile{
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Coordinates:  req.Coordinates,
		FacebookURL:  req.FacebookURL,
		YoutubeURL:   req.YoutubeURL,
		LinkedinURL:  req.LinkedinURL,
		TiktokURL:    req.TiktokURL,
		Language:     lang,
	})
	if errors.Is(err, settings.ErrInvalidCoordinates) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("save settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse{AppSettings: s, Coordinates: s.CoordinatesInput()}})
}

package auth

import (
	"errors"
	"net/http"
	"time"

	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenTTL is the lifetime of an admin session token.
const TokenTTL = 24 * time.Hour

type Handler struct {
	users  *users.Service
	secret string
	google *Google
	log    *zap.Logger
}

// NewHandler wires the admin sign-in endpoints. google may be nil when
// Google sign-in is not configured.
func NewHandler(svc *users.Service, secret string, google *Google, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{users: svc, secret: secret, google: google, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/login", h.login)
	g.GET("/me", authMW, h.me)
	g.GET("/google/start", h.googleStart)
	g.GET("/google/callback", h.googleCallback)
}

// RegisterAdminRoutes mounts the password form on the admin group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/password", h.changePassword)
}

func (h *Handler) issue(u *users.User) (string, error) {
	return middleware.SignToken(h.secret, u.ID, u.Email, u.Role, TokenTTL)
}

// ------------------------------
// POST /auth/login
// ------------------------------
func (h *Handler) login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case errors.Is(err, users.ErrNoPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	case err != nil:
		h.log.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "details": err.Error()})
		return
	}

	token, err := h.issue(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// ------------------------------
// GET /auth/me
// ------------------------------
func (h *Handler) me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.GetUint(middleware.CtxUserID))
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// ------------------------------
// PUT /admin/password
// ------------------------------
func (h *Handler) changePassword(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
		Confirm  string `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	lc := middleware.LanguageFrom(c)

	err := h.users.ChangePassword(c.Request.Context(), c.GetUint(middleware.CtxUserID), body.Password, body.Confirm)
	switch {
	case errors.Is(err, users.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": lc.T("admin", "passwordRule")})
		return
	case errors.Is(err, users.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": lc.T("admin", "passwordMismatch")})
		return
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	case err != nil:
		h.log.Error("change password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": lc.T("admin", "passwordUpdated")})
}

package media

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Objects reads stored files by key.
type Objects interface {
	Object(key string) ([]byte, string, bool)
}

// Handler serves the in-memory object store used in local development, so
// the URLs it hands out resolve.
type Handler struct {
	objects Objects
}

func NewHandler(objects Objects) *Handler {
	return &Handler{objects: objects}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/media/*key", h.get)
	r.HEAD("/media/*key", h.get)
}

// ------------------------------
// GET /media/*key
// ------------------------------
func (h *Handler) get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, contentType, ok := h.objects.Object(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

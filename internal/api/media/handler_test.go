package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"makani-studio/internal/infra/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServesStoredObjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := storage.NewMemory("http://localhost:8080/media", "projects")
	url, err := mem.PutObject(context.Background(), "projects/1-cover.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"), 10)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(mem).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(url, "http://localhost:8080"), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", w.Body.String())

	require.NoError(t, mem.RemoveURLs(context.Background(), []string{url}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/projects/1-cover.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

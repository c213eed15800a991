package inquiries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/inquiries"
	"makani-studio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tagTranslator struct{}

func (tagTranslator) TranslateToAll(ctx context.Context, text string, source i18n.Language) i18n.LocalizedText {
	out := i18n.FromSource(text)
	out.Set(source, "["+string(source)+"] "+text)
	return out
}

func router(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(inquiries.NewService(db, tagTranslator{}, nil), nil)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	h.RegisterAdminRoutes(r.Group("/api/admin"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitStoresSanitizedInquiry(t *testing.T) {
	db := testutil.OpenDB(t, &inquiries.Inquiry{})
	r := router(db)

	w := do(r, http.MethodPost, "/api/inquiries",
		`{"name":"<b>Sidi</b>","email":"sidi@example.mr","subject":"New Project","message":"Une villa","language":"fr"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got inquiries.Inquiry
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "Sidi", got.Name)
	assert.Equal(t, inquiries.TypeProject, got.Type)
	assert.Equal(t, inquiries.StatusNew, got.Status)
	require.NotNil(t, got.MessageI18n)
	assert.Equal(t, "[fr] Une villa", got.MessageI18n.FR)
}

func TestSubmitValidation(t *testing.T) {
	r := router(testutil.OpenDB(t, &inquiries.Inquiry{}))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/inquiries", `{"name":"A"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/inquiries", `not json`).Code)
}

func TestSubmitStorageFailureIsGeneric(t *testing.T) {
	r := router(testutil.OpenDB(t))

	w := do(r, http.MethodPost, "/api/inquiries", `{"name":"A","email":"a@b.mr","message":"hi"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Unable to send your message. Please try again later."}`, w.Body.String())
}

func TestAdminListAndStatus(t *testing.T) {
	db := testutil.OpenDB(t, &inquiries.Inquiry{})
	r := router(db)
	do(r, http.MethodPost, "/api/inquiries", `{"name":"A","email":"a@b.mr","message":"one"}`)
	do(r, http.MethodPost, "/api/inquiries", `{"name":"B","email":"b@b.mr","message":"two","subject":"Press"}`)

	var body struct {
		Inquiries []inquiries.Inquiry `json:"inquiries"`
	}
	w := do(r, http.MethodGet, "/api/admin/inquiries", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Inquiries, 2)
	id := body.Inquiries[0].ID

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/api/admin/inquiries/"+id+"/status", `{"status":"done"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/api/admin/inquiries/nope/status", `{"status":"read"}`).Code)

	w = do(r, http.MethodPatch, "/api/admin/inquiries/"+id+"/status", `{"status":"replied"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"replied"`)

	w = do(r, http.MethodGet, "/api/admin/inquiries?status=replied", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Inquiries, 1)
	assert.Equal(t, id, body.Inquiries[0].ID)
}

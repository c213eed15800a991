package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suffixTranslator struct{}

func (suffixTranslator) TranslateToAll(ctx context.Context, text string, source i18n.Language) i18n.LocalizedText {
	text = strings.TrimSpace(text)
	return i18n.LocalizedText{EN: text, FR: text + " (fr)", AR: text + " (ar)"}
}

func setup(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t, &categories.Category{})
	r := gin.New()
	NewHandler(categories.NewService(db, suffixTranslator{}, nil), nil).RegisterRoutes(r.Group("/api/admin"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type listBody struct {
	Categories []categories.Category `json:"categories"`
}

func create(t *testing.T, r http.Handler, body string) categories.Category {
	w := do(r, http.MethodPost, "/api/admin/categories", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Category categories.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Category
}

func keys(list []categories.Category) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Key
	}
	return out
}

func TestCreateAndList(t *testing.T) {
	r := setup(t)
	a := create(t, r, `{"label":"Residential"}`)
	create(t, r, `{"label":"Interior Design","is_active":false}`)

	assert.Equal(t, "residential", a.Key)
	assert.Equal(t, 10, a.SortOrder)
	assert.Equal(t, "Residential (fr)", a.Label.FR)

	w := do(r, http.MethodPost, "/api/admin/categories", `{"label":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body listBody
	w = do(r, http.MethodGet, "/api/admin/categories?scope=inactive", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"interior-design"}, keys(body.Categories))

	w = do(r, http.MethodGet, "/api/admin/categories?q=resid", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"residential"}, keys(body.Categories))
}

func TestMoveToggleDelete(t *testing.T) {
	r := setup(t)
	create(t, r, `{"label":"Alpha"}`)
	b := create(t, r, `{"label":"Beta"}`)
	create(t, r, `{"label":"Gamma"}`)

	w := do(r, http.MethodPost, "/api/admin/categories/"+b.ID+"/move", `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, keys(body.Categories))
	assert.Equal(t, 10, body.Categories[0].SortOrder)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/admin/categories/"+b.ID+"/move", `{"direction":"left"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/admin/categories/missing/move", `{"direction":"up"}`).Code)

	w = do(r, http.MethodPatch, "/api/admin/categories/"+b.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":false`)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/admin/categories/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/admin/categories/"+b.ID, "").Code)
}

func TestUpdateKeepsKey(t *testing.T) {
	r := setup(t)
	a := create(t, r, `{"label":"Urbanism"}`)

	w := do(r, http.MethodPut, "/api/admin/categories/"+a.ID, `{"label":"Urban Planning","is_active":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Category categories.Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "urbanism", out.Category.Key)
	assert.Equal(t, "Urban Planning (ar)", out.Category.Label.AR)
}

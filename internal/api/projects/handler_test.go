package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/media"
	"makani-studio/internal/domain/projects"
	"makani-studio/internal/infra/storage"
	"makani-studio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type langTranslator struct{}

func (langTranslator) TranslateToAll(ctx context.Context, text string, source i18n.Language) i18n.LocalizedText {
	if text == "" {
		return i18n.LocalizedText{}
	}
	return i18n.LocalizedText{EN: text, FR: text + " [fr]", AR: text + " [ar]"}
}

type env struct {
	r   *gin.Engine
	db  *gorm.DB
	mem *storage.Memory
}

func setup(t *testing.T) env {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t, &projects.Project{}, &categories.Category{})
	require.NoError(t, db.Create(&categories.Category{Key: "housing", Label: i18n.LocalizedText{EN: "Housing", FR: "Logement", AR: "سكن"}}).Error)

	mem := storage.NewMemory("https://cdn.example.com", "projects")
	bucket := media.NewBucket(mem)
	store := projects.NewStore(db)
	wf := projects.NewWorkflow(store, langTranslator{}, bucket, bucket, nil)

	r := gin.New()
	NewHandler(store, wf, bucket, i18n.MustLoadStore(), nil).RegisterRoutes(r.Group("/api/admin"))
	return env{r: r, db: db, mem: mem}
}

type formFile struct {
	field, name string
}

func send(t *testing.T, r http.Handler, method, path string, fields map[string][]string, files ...formFile) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes-" + f.name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type saveBody struct {
	Project  projects.Project `json:"project"`
	Next     string           `json:"next"`
	Progress []progressStep   `json:"progress"`
	Missing  []string         `json:"missing"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) saveBody {
	var out saveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func fullForm(published bool) map[string][]string {
	return map[string][]string{
		"language":    {"en"},
		"category":    {"housing"},
		"title":       {"Villa Ksar"},
		"location":    {"Nouakchott"},
		"description": {"A courtyard house"},
		"concept":     {"Light and shade"},
		"status":      {"Completed"},
		"published":   {strconv.FormatBool(published)},
	}
}

func TestCreateDraftUploadsAndResets(t *testing.T) {
	e := setup(t)

	w := send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(false),
		formFile{"cover", "cover.JPG"}, formFile{"gallery", "a.png"}, formFile{"gallery", "b.png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "reset", body.Next)
	percents := make([]int, len(body.Progress))
	for i, s := range body.Progress {
		percents[i] = s.Percent
	}
	assert.Equal(t, []int{8, 20, 28, 36, 44, 50, 82, 100}, percents)

	p := body.Project
	assert.Equal(t, 3, e.mem.Len())
	assert.True(t, e.mem.Has(p.CoverImage))
	assert.Regexp(t, `^https://cdn\.example\.com/projects/\d+-[0-9a-f]+\.jpg$`, p.CoverImage)
	assert.Len(t, p.Images, 2)
	assert.Equal(t, projects.StatusCompleted, p.Status)
	assert.Equal(t, "Logement", p.CategoryLabel.FR)
	assert.Equal(t, "Villa Ksar [ar]", p.Title.AR)
	assert.Equal(t, 1, p.Version)
}

func TestPublishGateBlocksIncompleteProject(t *testing.T) {
	e := setup(t)

	w := send(t, e.r, http.MethodPost, "/api/admin/projects", map[string][]string{
		"title":     {"Only a title"},
		"published": {"true"},
	}, formFile{"gallery", "a.png"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.Len(t, body.Missing, 5)
	assert.Contains(t, body.Missing, "Cover image")
	assert.Equal(t, 0, e.mem.Len())

	var n int64
	require.NoError(t, e.db.Model(&projects.Project{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPublishedCreateGoesBackToList(t *testing.T) {
	e := setup(t)

	w := send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(true), formFile{"cover", "c.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "list", decode(t, w).Next)
}

func TestUpdateRemovesReplacedMediaAfterSave(t *testing.T) {
	e := setup(t)
	created := decode(t, send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(false),
		formFile{"cover", "c.jpg"}, formFile{"gallery", "a.png"}, formFile{"gallery", "b.png"})).Project
	oldCover, dropped := created.CoverImage, created.Images[0]

	w := send(t, e.r, http.MethodPut, "/api/admin/projects/"+created.ID, map[string][]string{
		"version":       {"1"},
		"title":         {"Villa Ksar II"},
		"remove_images": {dropped},
	}, formFile{"cover", "new.webp"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "stay", body.Next)
	assert.Equal(t, 2, body.Project.Version)
	assert.Equal(t, "Villa Ksar II", body.Project.Title.EN)
	assert.Equal(t, "Nouakchott", body.Project.Location.EN)
	assert.Equal(t, []string{created.Images[1]}, []string(body.Project.Images))
	assert.False(t, e.mem.Has(oldCover))
	assert.False(t, e.mem.Has(dropped))
	assert.True(t, e.mem.Has(body.Project.CoverImage))
	assert.Equal(t, 2, e.mem.Len())
}

func TestUpdateWithStaleVersionConflicts(t *testing.T) {
	e := setup(t)
	created := decode(t, send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(false), formFile{"cover", "c.jpg"})).Project
	require.Equal(t, http.StatusOK, send(t, e.r, http.MethodPut, "/api/admin/projects/"+created.ID,
		map[string][]string{"version": {"1"}, "area": {"320 m2"}}).Code)

	w := send(t, e.r, http.MethodPut, "/api/admin/projects/"+created.ID, map[string][]string{
		"version": {"1"},
		"title":   {"Stale edit"},
	}, formFile{"gallery", "late.png"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, e.mem.Len())
	assert.True(t, e.mem.Has(created.CoverImage))
}

func TestUpdateRequiresVersion(t *testing.T) {
	e := setup(t)
	created := decode(t, send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(false), formFile{"cover", "c.jpg"})).Project

	for _, version := range [][]string{nil, {""}, {"zero"}, {"0"}} {
		fields := map[string][]string{"title": {"Blind edit"}}
		if version != nil {
			fields["version"] = version
		}
		w := send(t, e.r, http.MethodPut, "/api/admin/projects/"+created.ID, fields, formFile{"gallery", "x.png"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing_version")
	}

	var stored projects.Project
	require.NoError(t, e.db.First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, created.Title.EN, stored.Title.EN)
	assert.Equal(t, 1, e.mem.Len())
}

func TestDeleteRemovesFiles(t *testing.T) {
	e := setup(t)
	created := decode(t, send(t, e.r, http.MethodPost, "/api/admin/projects", fullForm(false),
		formFile{"cover", "c.jpg"}, formFile{"gallery", "a.png"})).Project
	require.Equal(t, 2, e.mem.Len())

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/projects/"+created.ID, nil)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, e.mem.Len())

	w = httptest.NewRecorder()
	e.r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/projects/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

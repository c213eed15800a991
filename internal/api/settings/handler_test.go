package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/settings"
	"makani-studio/internal/infra/geocode"
	"makani-studio/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mirrorTranslator struct{}

func (mirrorTranslator) TranslateToAll(ctx context.Context, text string, source i18n.Language) i18n.LocalizedText {
	return i18n.FromSource(text)
}

func setup(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name":"Ksar, Nouakchott, Mauritanie","address":{"suburb":"Ksar","city":"Nouakchott","country":"Mauritanie"}}`))
	}))
	t.Cleanup(nominatim.Close)

	svc := settings.NewService(
		settings.NewStore(testutil.OpenDB(t, &settings.AppSettings{})),
		geocode.NewNominatim(nominatim.URL),
		mirrorTranslator{},
		nil,
	)
	r := gin.New()
	NewHandler(svc, nil).RegisterRoutes(r.Group("/api/admin"))
	return r
}

func do(r http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/admin/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateSettings(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPut, `{"contact_email":"studio@makani.mr","coordinates":"18°05'12\"N 15°58'36\"W"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Settings struct {
			ContactEmail  string             `json:"contact_email"`
			City          i18n.LocalizedText `json:"city"`
			District      i18n.LocalizedText `json:"district"`
			AddressLine   i18n.LocalizedText `json:"address_line"`
			GoogleMapsURL string             `json:"google_maps_url"`
			Coordinates   string             `json:"coordinates"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "studio@makani.mr", body.Settings.ContactEmail)
	assert.Equal(t, "Nouakchott", body.Settings.City.FR)
	assert.Equal(t, "Ksar", body.Settings.District.EN)
	assert.Equal(t, "Ksar, Nouakchott, Mauritanie", body.Settings.AddressLine.AR)
	assert.Equal(t, "18.086667, -15.976667", body.Settings.Coordinates)
	assert.True(t, strings.HasPrefix(body.Settings.GoogleMapsURL, "https://www.google.com/maps?q=18.08666"))
}

func TestUpdateSettingsRejectsCoordinates(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPut, `{"coordinates":"next to the port"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid_coordinates"}`, w.Body.String())

	w = do(r, http.MethodPut, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

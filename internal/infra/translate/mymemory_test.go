package translate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/infra/translate"
)

func newServer(t *testing.T, calls *int32, handle func(q, langpair string) (int, string)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.Equal(t, "/get", r.URL.Path)
		status, text := handle(r.URL.Query().Get("q"), r.URL.Query().Get("langpair"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData": map[string]string{"translatedText": text},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestTranslateToAllBlankInputMakesNoCalls(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := newServer(t, &calls, func(string, string) (int, string) { return http.StatusOK, "x" })
	c := translate.New(translate.WithBaseURL(ts.URL), translate.WithHTTPClient(ts.Client()))

	for _, in := range []string{"", "   ", "\n\t"} {
		got := c.TranslateToAll(context.Background(), in, i18n.FR)
		assert.Equal(t, i18n.LocalizedText{}, got)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTranslateToAllSeedsSourceWithTrimmedInput(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := newServer(t, &calls, func(q, langpair string) (int, string) {
		return http.StatusOK, "[" + langpair + "] " + q
	})
	c := translate.New(translate.WithBaseURL(ts.URL), translate.WithHTTPClient(ts.Client()))

	got := c.TranslateToAll(context.Background(), "  Maison sur la colline ", i18n.FR)
	assert.Equal(t, "Maison sur la colline", got.FR)
	assert.Equal(t, "[fr|en] Maison sur la colline", got.EN)
	assert.Equal(t, "[fr|ar] Maison sur la colline", got.AR)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTranslateToAllFallsBackPerTarget(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := newServer(t, &calls, func(q, langpair string) (int, string) {
		if strings.HasSuffix(langpair, "|ar") {
			return http.StatusInternalServerError, ""
		}
		return http.StatusOK, "House"
	})

	for _, parallel := range []bool{false, true} {
		c := translate.New(
			translate.WithBaseURL(ts.URL),
			translate.WithHTTPClient(ts.Client()),
			translate.WithParallel(parallel),
		)
		got := c.TranslateToAll(context.Background(), "Maison", i18n.FR)
		assert.Equal(t, i18n.LocalizedText{EN: "House", FR: "Maison", AR: "Maison"}, got)
	}
}

func TestTranslateToAllUnreachableKeepsOriginal(t *testing.T) {
	t.Parallel()

	c := translate.New(translate.WithBaseURL("http://127.0.0.1:1"))
	got := c.TranslateToAll(context.Background(), "Studio", i18n.EN)
	assert.Equal(t, i18n.FromSource("Studio"), got)
}

func TestTranslateTextDecodesEntities(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := newServer(t, &calls, func(string, string) (int, string) {
		return http.StatusOK, "l&#39;atelier &quot;Makani&quot; &amp; co &lt;3"
	})
	c := translate.New(translate.WithBaseURL(ts.URL), translate.WithHTTPClient(ts.Client()))

	got, err := c.TranslateText(context.Background(), "the studio", i18n.EN, i18n.FR)
	require.NoError(t, err)
	assert.Equal(t, `l'atelier "Makani" & co <3`, got)
}

func TestTranslateTextSameLanguageShortCircuits(t *testing.T) {
	t.Parallel()

	var calls int32
	ts := newServer(t, &calls, func(string, string) (int, string) { return http.StatusOK, "nope" })
	c := translate.New(translate.WithBaseURL(ts.URL), translate.WithHTTPClient(ts.Client()))

	got, err := c.TranslateText(context.Background(), " bonjour ", i18n.FR, i18n.FR)
	require.NoError(t, err)
	assert.Equal(t, "bonjour", got)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDecodeEntitiesIsSequential(t *testing.T) {
	assert.Equal(t, "<b>", translate.DecodeEntities("&amp;lt;b&amp;gt;"))
}

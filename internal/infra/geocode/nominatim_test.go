package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "/reverse", r.URL.Path)
		_, _ = w.Write([]byte(`{"display_name":"Tevragh Zeina, Nouakchott, Mauritanie","address":{"town":"Nouakchott","quarter":"Tevragh Zeina","county":"Nouakchott-Ouest","country":"Mauritanie"}}`))
	}))
	defer srv.Close()

	place, err := NewNominatim(srv.URL).Reverse(context.Background(), 18.1, -15.95)
	require.NoError(t, err)
	assert.Equal(t, "format=json&lat=18.1&lon=-15.95", gotQuery)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "Tevragh Zeina, Nouakchott, Mauritanie", place.DisplayName)
	assert.Equal(t, "Nouakchott", place.City)
	assert.Equal(t, "Tevragh Zeina", place.District)
	assert.Equal(t, "Mauritanie", place.Country)
}

func TestReverseCountyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"address":{"county":"Adrar"}}`))
	}))
	defer srv.Close()

	place, err := NewNominatim(srv.URL).Reverse(context.Background(), 20, -13)
	require.NoError(t, err)
	assert.Equal(t, "Adrar", place.City)
	assert.Equal(t, "Adrar", place.District)
	assert.Empty(t, place.DisplayName)
}

func TestReverseHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL).Reverse(context.Background(), 1, 2)
	assert.ErrorContains(t, err, "429")
}

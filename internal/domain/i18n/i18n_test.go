package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLookupFallsBackToKey(t *testing.T) {
	s, err := LoadStore()
	require.NoError(t, err)

	assert.Equal(t, "Catégorie", s.T(FR, "admin", "fieldCategory"))
	assert.Equal(t, "مكتمل", s.T(AR, "status", "completed"))
	assert.Equal(t, "noSuchKey", s.T(FR, "admin", "noSuchKey"))
	assert.Equal(t, "fieldTitle", s.T(EN, "missing-section", "fieldTitle"))
}

func TestStoreSectionValueWithoutKey(t *testing.T) {
	s := MustLoadStore()

	assert.Equal(t, "Makani", s.T(EN, "brand", ""))
	assert.Equal(t, "مكاني", s.T(AR, "brand", ""))
	// a keyed section has no plain value
	assert.Equal(t, "admin", s.T(EN, "admin", ""))
}

func TestStoreFallsBackToEnglish(t *testing.T) {
	s := NewStore(map[Language]map[string]map[string]string{
		EN: {"admin": {"only": "English only"}},
		FR: {"admin": {}},
	})
	assert.Equal(t, "English only", s.T(FR, "admin", "only"))
}

func TestResolvePrecedence(t *testing.T) {
	lang, explicit := Resolve("ar", "fr", EN)
	assert.Equal(t, AR, lang)
	assert.True(t, explicit)

	lang, explicit = Resolve("", "fr-CA", EN)
	assert.Equal(t, FR, lang)
	assert.True(t, explicit)

	lang, explicit = Resolve("de", "", FR)
	assert.Equal(t, FR, lang)
	assert.False(t, explicit)

	lang, explicit = Resolve("", "", "xx")
	assert.Equal(t, EN, lang)
	assert.False(t, explicit)
}

func TestContextDirection(t *testing.T) {
	ctx := NewContext(MustLoadStore(), AR, true)
	assert.Equal(t, "rtl", ctx.Dir())
	assert.Equal(t, "ltr", ctx.WithLanguage(FR).Dir())
	assert.Equal(t, "Titre", ctx.WithLanguage(FR).T("admin", "fieldTitle"))

	var bare Context
	assert.Equal(t, "fieldTitle", bare.T("admin", "fieldTitle"))
}

func TestLocalizedTextAcceptsBareString(t *testing.T) {
	var v LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`"in_progress"`), &v))
	assert.Equal(t, FromSource("in_progress"), v)

	require.NoError(t, json.Unmarshal([]byte(`{"en":"Villa"}`), &v))
	assert.Equal(t, LocalizedText{EN: "Villa"}, v)
	assert.Equal(t, LocalizedText{EN: "Villa", FR: "Villa", AR: "Villa"}, v.Normalize())
}

func TestLocalizedTextScan(t *testing.T) {
	var v LocalizedText
	require.NoError(t, v.Scan([]byte(`{"en":"A","fr":"B","ar":"C"}`)))
	assert.Equal(t, "B", v.Pick(FR))

	require.NoError(t, v.Scan("completed"))
	assert.Equal(t, FromSource("completed"), v)

	require.NoError(t, v.Scan(nil))
	assert.True(t, v.IsZero())

	assert.Error(t, v.Scan(42))
}

func TestPickFallsBackToEnglish(t *testing.T) {
	v := LocalizedText{EN: "Studio", AR: "استوديو"}
	assert.Equal(t, "Studio", v.Pick(FR))
	assert.Equal(t, "استوديو", v.Pick(AR))
}

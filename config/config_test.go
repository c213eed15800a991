package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvReportsMissing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "")

	err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL or DB_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/makani")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("CORS_ORIGIN", "https://makani.mr, ,https://admin.makani.mr")
	t.Setenv("TRANSLATE_PARALLEL", "true")
	t.Setenv("S3_PATH_STYLE", "not-a-bool")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECURE_COOKIES", "")
	t.Setenv("ANALYTICS_SERVER_THROTTLE", "")

	require.NoError(t, LoadEnv())
	assert.Equal(t, "postgres://localhost/makani", DB_URL)
	assert.Equal(t, []string{"https://makani.mr", "https://admin.makani.mr"}, CORS_ORIGINS)
	assert.True(t, TRANSLATE_PARALLEL)
	assert.False(t, S3_PATH_STYLE)
	assert.True(t, SECURE_COOKIES)
	assert.False(t, ANALYTICS_SERVER_THROTTLE)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	APP_ENV string
	PORT    string
	DB_URL  string

	JWT_SECRET     string
	CORS_ORIGINS   []string
	SECURE_COOKIES bool

	DEFAULT_LANGUAGE string

	REDIS_URL string

	S3_BUCKET            string
	S3_REGION            string
	S3_ENDPOINT          string
	S3_ACCESS_KEY_ID     string
	S3_SECRET_ACCESS_KEY string
	S3_PUBLIC_BASE_URL   string
	S3_PATH_STYLE        bool

	TRANSLATE_URL      string
	TRANSLATE_EMAIL    string
	TRANSLATE_PARALLEL bool

	NOMINATIM_URL string

	ANALYTICS_IP_SALT         string
	ANALYTICS_SERVER_THROTTLE bool

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_PASSWORD string

	ADMIN_EMAILS   string
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

// EnvFileLoaded reports whether a .env file was read by LoadEnv.
var EnvFileLoaded bool

// LoadEnv reads .env when present, then the process environment. Every
// missing required variable is reported in the returned error.
func LoadEnv() error {
	EnvFileLoaded = godotenv.Load() == nil

	var missing []error
	must := func(keys ...string) string {
		v, err := mustEnv(keys...)
		if err != nil {
			missing = append(missing, err)
		}
		return v
	}

	APP_ENV = getEnv("APP_ENV", "development")
	PORT = getEnv("PORT", "8080")
	DB_URL = must("DATABASE_URL", "DB_URL")

	JWT_SECRET = must("JWT_SECRET")
	CORS_ORIGINS = getList("CORS_ORIGIN", "http://localhost:3000")
	SECURE_COOKIES = getBool("SECURE_COOKIES", APP_ENV == "production")

	DEFAULT_LANGUAGE = getEnv("DEFAULT_LANGUAGE", "en")

	REDIS_URL = getEnv("REDIS_URL", "")

	S3_BUCKET = getEnv("S3_BUCKET", "")
	S3_REGION = getEnv("S3_REGION", "")
	S3_ENDPOINT = getEnv("S3_ENDPOINT", "")
	S3_ACCESS_KEY_ID = getEnv("S3_ACCESS_KEY_ID", "")
	S3_SECRET_ACCESS_KEY = getEnv("S3_SECRET_ACCESS_KEY", "")
	S3_PUBLIC_BASE_URL = getEnv("S3_PUBLIC_BASE_URL", "")
	S3_PATH_STYLE = getBool("S3_PATH_STYLE", false)

	TRANSLATE_URL = getEnv("TRANSLATE_URL", "")
	TRANSLATE_EMAIL = getEnv("TRANSLATE_EMAIL", "")
	TRANSLATE_PARALLEL = getBool("TRANSLATE_PARALLEL", false)

	NOMINATIM_URL = getEnv("NOMINATIM_URL", "")

	ANALYTICS_IP_SALT = getEnv("ANALYTICS_IP_SALT", "")
	ANALYTICS_SERVER_THROTTLE = getBool("ANALYTICS_SERVER_THROTTLE", false)

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_FROM = getEnv("SMTP_FROM", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")

	ADMIN_EMAILS = getEnv("ADMIN_EMAILS", "")
	ADMIN_EMAIL = getEnv("ADMIN_EMAIL", "")
	ADMIN_PASSWORD = getEnv("ADMIN_PASSWORD", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	return errors.Join(missing...)
}

// S3Configured is true once the bucket and its credentials are set.
func S3Configured() bool {
	return S3_BUCKET != "" && S3_ACCESS_KEY_ID != "" && S3_SECRET_ACCESS_KEY != ""
}

// mustEnv returns the first non-empty value among keys.
func mustEnv(keys ...string) (string, error) {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("missing required environment variable: %s", strings.Join(keys, " or "))
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return fallback
	}
	return v
}

// getList splits a comma separated value, dropping blanks.
func getList(key string, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

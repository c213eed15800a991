package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"makani-studio/config"
	"makani-studio/database"
	adminapi "makani-studio/internal/api/admin"
	analyticsapi "makani-studio/internal/api/analytics"
	authapi "makani-studio/internal/api/auth"
	categoriesapi "makani-studio/internal/api/categories"
	inquiriesapi "makani-studio/internal/api/inquiries"
	mediaapi "makani-studio/internal/api/media"
	projectsapi "makani-studio/internal/api/projects"
	publicapi "makani-studio/internal/api/public"
	settingsapi "makani-studio/internal/api/settings"
	routes "makani-studio/internal/app/http"
	"makani-studio/internal/app/http/middleware"
	"makani-studio/internal/domain/analytics"
	"makani-studio/internal/domain/categories"
	"makani-studio/internal/domain/i18n"
	"makani-studio/internal/domain/inquiries"
	"makani-studio/internal/domain/media"
	"makani-studio/internal/domain/projects"
	"makani-studio/internal/domain/settings"
	"makani-studio/internal/domain/users"
	"makani-studio/internal/infra/cache"
	"makani-studio/internal/infra/geocode"
	"makani-studio/internal/infra/mailer"
	"makani-studio/internal/infra/storage"
	"makani-studio/internal/infra/translate"
	"makani-studio/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	envErr := config.LoadEnv()

	log, err := logger.New(config.APP_ENV)
	if err != nil {
		log, _ = zap.NewProduction()
		log.Warn("logger config failed, using production defaults", zap.Error(err))
	}
	defer log.Sync()

	if !config.EnvFileLoaded {
		log.Info("no .env file found, using system environment variables")
	}
	if envErr != nil {
		log.Fatal("invalid configuration", zap.Error(envErr))
	}

	db, err := database.Open(config.DB_URL, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	// Browsers already skip re-sends through the tracker. The server side
	// window is opt-in and shared through redis when available.
	var throttle analytics.Throttle
	if config.ANALYTICS_SERVER_THROTTLE {
		throttle = cache.NewMemoryThrottle()
		if config.REDIS_URL != "" {
			rc, err := cache.Connect(config.REDIS_URL)
			if err != nil {
				log.Warn("redis unavailable, visit throttle kept in memory", zap.Error(err))
			} else {
				defer rc.Close()
				throttle = cache.NewRedisThrottle(rc)
			}
		}
	}

	objects, devMedia := objectStore(log)
	bucket := media.NewBucket(objects)

	translateOpts := []translate.Option{
		translate.WithEmail(config.TRANSLATE_EMAIL),
		translate.WithParallel(config.TRANSLATE_PARALLEL),
		translate.WithLogger(log.Named("translate")),
	}
	if config.TRANSLATE_URL != "" {
		translateOpts = append(translateOpts, translate.WithBaseURL(config.TRANSLATE_URL))
	}
	translator := translate.New(translateOpts...)

	labels := i18n.MustLoadStore()
	defaultLang, ok := i18n.ParseLanguage(config.DEFAULT_LANGUAGE)
	if !ok {
		defaultLang = i18n.EN
	}

	admins := users.ParseAllowList(config.ADMIN_EMAILS)
	userSvc := users.NewService(db, admins, log.Named("users"))
	if config.ADMIN_EMAIL != "" && config.ADMIN_PASSWORD != "" {
		if err := userSvc.EnsureAdmin(context.Background(), config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
			log.Fatal("bootstrap admin", zap.Error(err))
		}
	}

	store := projects.NewStore(db)
	workflow := projects.NewWorkflow(store, translator, bucket, bucket, log.Named("projects"))
	catSvc := categories.NewService(db, translator, log.Named("categories"))
	settingsSvc := settings.NewService(settings.NewStore(db), geocode.NewNominatim(config.NOMINATIM_URL), translator, log.Named("settings"))

	inqSvc := inquiries.NewService(db, translator, log.Named("inquiries"))
	smtpCfg := mailer.Config{Host: config.SMTP_HOST, Port: config.SMTP_PORT, From: config.SMTP_FROM, Password: config.SMTP_PASSWORD}
	if smtpCfg.Enabled() && len(admins) > 0 {
		to := make([]string, 0, len(admins))
		for email := range admins {
			to = append(to, email)
		}
		inqSvc.WithNotifications(mailer.NewSMTP(smtpCfg), to)
	}

	recorder := analytics.NewRecorder(db, throttle, config.ANALYTICS_IP_SALT, log.Named("analytics"))
	reports := analytics.NewReports(db)

	var google *authapi.Google
	googleCfg := authapi.GoogleConfig{
		ClientID:         config.GOOGLE_CLIENT_ID,
		ClientSecret:     config.GOOGLE_CLIENT_SECRET,
		RedirectURL:      config.GOOGLE_REDIRECT_URL,
		FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
		SecureCookies:    config.SECURE_COOKIES,
	}
	if googleCfg.Enabled() {
		google = authapi.NewGoogle(googleCfg)
	}

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS_ORIGINS,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", i18n.HeaderName},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:       config.JWT_SECRET,
		Labels:          labels,
		DefaultLanguage: defaultLang,
		Public:          publicapi.NewHandler(catSvc, store, settingsSvc, config.SECURE_COOKIES, log.Named("public")),
		Analytics:       analyticsapi.NewHandler(recorder, reports, config.SECURE_COOKIES, log.Named("analytics")),
		Inquiries:       inquiriesapi.NewHandler(inqSvc, log.Named("inquiries")),
		Auth:            authapi.NewHandler(userSvc, config.JWT_SECRET, google, log.Named("auth")),
		Admin:           adminapi.NewHandler(store, inqSvc, reports, log.Named("admin")),
		Categories:      categoriesapi.NewHandler(catSvc, log.Named("categories")),
		Projects:        projectsapi.NewHandler(store, workflow, bucket, labels, log.Named("projects")),
		Settings:        settingsapi.NewHandler(settingsSvc, log.Named("settings")),
		Media:           devMedia,
	})

	srv := &http.Server{
		Addr:    ":" + config.PORT,
		Handler: r,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", config.APP_ENV))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// objectStore uses S3 when configured. Otherwise media is kept in memory and
// served under /media, which only suits local development.
func objectStore(log *zap.Logger) (media.ObjectStore, *mediaapi.Handler) {
	if config.S3Configured() {
		s3, err := storage.NewS3(storage.S3Options{
			Bucket:          config.S3_BUCKET,
			Region:          config.S3_REGION,
			Endpoint:        config.S3_ENDPOINT,
			AccessKeyID:     config.S3_ACCESS_KEY_ID,
			SecretAccessKey: config.S3_SECRET_ACCESS_KEY,
			PublicBaseURL:   config.S3_PUBLIC_BASE_URL,
			PathStyle:       config.S3_PATH_STYLE,
		})
		if err != nil {
			log.Fatal("s3 storage", zap.Error(err))
		}
		return s3, nil
	}
	base := "http://localhost:" + config.PORT + "/media"
	log.Warn("S3 not configured, project media kept in memory and lost on restart", zap.String("served_at", base))
	mem := storage.NewMemory(base, "projects")
	return mem, mediaapi.NewHandler(mem)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/http/handlers"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/cache"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/mailer"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/uploads"
	"github.com/ceylontrails/ceylontrails-api/internal/repo/postgres"
	"github.com/ceylontrails/ceylontrails-api/internal/service"
	"github.com/ceylontrails/ceylontrails-api/pkg/config"
	"github.com/ceylontrails/ceylontrails-api/pkg/database"
	"github.com/ceylontrails/ceylontrails-api/pkg/events"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
	mw "github.com/ceylontrails/ceylontrails-api/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The event bus is optional infrastructure; without it the API still
	// serves, it just stops feeding the revalidation/notification consumers.
	var publisher events.Publisher
	if natsPub, err := events.NewNATSPublisher(cfg.NATS.URL); err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
		publisher = events.NoopPublisher{}
	} else {
		publisher = natsPub
	}
	defer publisher.Close()

	store, err := cache.NewRedis(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	mail := buildMailer(cfg)

	packageRepo := postgres.NewPackageRepository(pool)
	inquiryRepo := postgres.NewInquiryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewResetTokenRepository(pool)

	packageService := service.NewPackageService(packageRepo, publisher)
	inquiryService := service.NewInquiryService(inquiryRepo, packageRepo, mail, publisher, cfg.Email.AdminEmail)
	authService := service.NewAuthService(userRepo, tokenRepo, mail, cfg)

	signer := uploads.NewSigner(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)

	h := handlers.New(packageService, inquiryService, authService, signer, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Site.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/v1", h.Routes(store))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

// buildMailer picks the email transport: dev mode logs instead of
// sending, a MailerSend key selects the API client, otherwise SMTP.
func buildMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.FromEmail, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
}

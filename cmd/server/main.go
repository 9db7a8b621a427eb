package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lwsbooking/internal/api"
	"lwsbooking/internal/auth"
	"lwsbooking/internal/config"
	"lwsbooking/internal/entities"
	"lwsbooking/internal/logger"
	"lwsbooking/internal/repository"
	"lwsbooking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := openSessionStore(ctx, cfg, lg)
	slots := openAvailability(ctx, cfg, lg)

	business := service.BusinessInfo{Name: cfg.BusinessName, Email: cfg.BusinessEmail}
	bookingSvc := service.NewBookingService(
		service.NewHTTPBookingGateway(cfg.BookingAPIURL, cfg.BookingTimeout, lg),
		confirmationSender(cfg, lg),
		smsNotifier(cfg, lg),
		service.BookingServiceConfig{Business: business, EmailTimeout: cfg.EmailTimeout},
		lg,
	)
	wizard := service.NewWizardService(sessions, slots, bookingSvc, service.WizardConfig{
		Offering: entities.Offering{
			ServiceName: cfg.ServiceName,
			Duration:    cfg.ServiceDuration,
			Price:       cfg.ServicePrice,
		},
	}, lg)

	tokens, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		lg.Fatal("Failed to build session token issuer", zap.Error(err))
	}
	if cfg.SessionSecret == "" {
		lg.Warn("SESSION_SECRET not set; session tokens will not survive a restart")
	}

	jobs := service.NewJobService(sessions, cfg.SessionTTL, lg)
	c := cron.New()
	if err := jobs.Schedule(c); err != nil {
		lg.Fatal("Failed to schedule session sweep", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	limiter := api.NewRateLimiter(cfg.ContactRatePerMin, 10*time.Minute)
	defer limiter.Close()

	handler := api.NewRouter(api.RouterDeps{
		Booking:        api.NewBookingHandler(wizard, tokens, lg),
		Contact:        api.NewContactHandler(service.NewContactService(cfg.FormspreeURL, business, cfg.EmailTimeout, lg), lg),
		Tokens:         tokens,
		ContactLimiter: limiter,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         lg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("Server running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) repository.SessionRepository {
	if cfg.RedisAddr == "" {
		lg.Info("Using in-memory session store")
		return repository.NewMemorySessionRepository()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		lg.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	lg.Info("Using Redis session store", zap.String("addr", cfg.RedisAddr))
	return repository.NewRedisSessionRepository(client, cfg.SessionTTL)
}

func openAvailability(ctx context.Context, cfg *config.Config, lg *zap.Logger) service.AvailabilityProvider {
	if cfg.DatabaseURL == "" {
		lg.Info("DATABASE_URL not set; using placeholder availability")
		return service.HashAvailability{}
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("Failed to open DB", zap.Error(err))
	}
	if err := db.PingContext(ctx); err != nil {
		lg.Fatal("Failed to connect to DB", zap.Error(err))
	}
	return service.NewCalendarAvailability(repository.NewAvailabilityRepository(db))
}

func confirmationSender(cfg *config.Config, lg *zap.Logger) service.ConfirmationSender {
	switch {
	case cfg.EmailJSEnabled():
		lg.Info("Confirmation email via EmailJS")
		return service.NewEmailJSSender(service.EmailJSConfig{
			URL:        cfg.EmailJSURL,
			ServiceID:  cfg.EmailJSServiceID,
			TemplateID: cfg.EmailJSTemplateID,
			PublicKey:  cfg.EmailJSPublicKey,
		}, lg)
	case cfg.SendGridEnabled():
		lg.Info("Confirmation email via SendGrid")
		return service.NewSendGridSender(service.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, lg)
	default:
		lg.Warn("No email provider configured; bookings will report emailSent=false")
		return service.NewDisabledSender(lg)
	}
}

func smsNotifier(cfg *config.Config, lg *zap.Logger) service.SMSNotifier {
	if !cfg.SMSEnabled() {
		return nil
	}
	return service.NewTwilioSMSNotifier(service.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	}, lg)
}

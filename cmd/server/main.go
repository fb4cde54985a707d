// @title guestrsvp API
// @version 1.0
// @description Digital invitations with a seat-capacity guest list and signed RSVP links.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"guestrsvp/config"
	"guestrsvp/internal/adapters/auth"
	"guestrsvp/internal/adapters/export"
	"guestrsvp/internal/adapters/notify"
	"guestrsvp/internal/adapters/share"
	"guestrsvp/internal/adapters/storage"
	deliveryhttp "guestrsvp/internal/delivery/http"
	"guestrsvp/internal/delivery/http/controllers"
	"guestrsvp/internal/delivery/http/middleware"
	"guestrsvp/internal/domain"
	"guestrsvp/internal/repository/postgres"
	"guestrsvp/internal/services"
)

const secretTokenLength = 40

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	userRepo := postgres.NewUserRepository(db)
	locker := postgres.NewSeatLocker(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	signer := auth.NewLinkSigner(cfg.LinkSigningSecret)
	secrets := auth.NewSecretGenerator(secretTokenLength)
	renderer, err := share.NewMessageRenderer()
	if err != nil {
		return err
	}
	exporter := export.NewGuestExporter()

	var objects domain.ObjectStorage
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.UploadsBucket,
		}, logger)
		if err != nil {
			return err
		}
		objects = s3
	} else {
		logger.Warn("image uploads disabled (AWS_REGION/AWS_S3_UPLOADS_BUCKET not set)")
	}

	notifier := notify.New(cfg.Kafka.Brokers, cfg.Kafka.RSVPTopic)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("close rsvp notifier", "err", err)
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	publicLimiter, err := middleware.NewRateLimiter(cfg.PublicRateLimit, redisClient)
	if err != nil {
		return err
	}

	// Services
	links := services.NewLinkBuilder(cfg.AppURL, signer, cfg.Location, cfg.RSVPLinkFallback)
	eventService := services.NewEventService(eventRepo, templateRepo, guestRepo, locker, links, renderer, cfg.RequestTimeout)
	guestService := services.NewGuestService(guestRepo, eventRepo, locker, secrets, exporter, cfg.RequestTimeout)
	rsvpService := services.NewRSVPService(guestRepo, eventRepo, locker, links, notifier, logger, cfg.RequestTimeout)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry, cfg.RequestTimeout)
	uploadService := services.NewUploadService(objects, cfg.RequestTimeout)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			return err
		}
		logger.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:         logger,
		Auth:           controllers.NewAuthController(logger, authService),
		Events:         controllers.NewEventController(logger, eventService),
		Guests:         controllers.NewGuestController(logger, guestService),
		Invitations:    controllers.NewInvitationController(logger, eventService),
		RSVP:           controllers.NewRSVPController(logger, rsvpService),
		Uploads:        controllers.NewUploadController(logger, uploadService),
		TokenVerifier:  verifier,
		LinkSigner:     signer,
		PublicLimit:    middleware.RateLimit(publicLimiter, logger),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

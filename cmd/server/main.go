package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/config"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/oauth"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/persistence"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/ratelimit"
	"github.com/lawmbass/sleepysquid-drones/internal/interface/gmail"
	httpapi "github.com/lawmbass/sleepysquid-drones/internal/interface/http"
	mongoRepo "github.com/lawmbass/sleepysquid-drones/internal/interface/repository"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting SleepySquid Drones API")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Pricing catalog lives in PostgreSQL
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := mongoRepo.SeedDefaultRates(gormDB); err != nil {
		log.Fatal("Failed to seed pricing catalog", "error", err)
	}

	// Set up repositories
	bookingRepo := mongoRepo.NewMongoBookingRepository(db)
	invitationRepo := mongoRepo.NewMongoInvitationRepository(db)
	userRepo := mongoRepo.NewMongoUserRepository(db)
	promoRepo := mongoRepo.NewMongoPromoRepository(db)
	catalogRepo := mongoRepo.NewGormCatalogRepository(gormDB)
	captcha := mongoRepo.NewRecaptchaRepository(log)

	// Set up Gmail mailer
	tokenSource := oauth.GmailTokenSource(ctx, cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken)
	mailer, err := gmail.NewMailSender(ctx, tokenSource, cfg.MailFrom, log)
	if err != nil {
		log.Fatal("Failed to create mail sender", "error", err)
	}

	m := metrics.NewMetrics("sleepysquid")

	// Set up services
	bookingService := usecase.NewBookingService(bookingRepo, catalogRepo, mailer, log, m)
	invitationService := usecase.NewInvitationService(invitationRepo, mailer, log, m, cfg.AdminEmailDomain, cfg.AppBaseURL)
	accountService := usecase.NewAccountService(userRepo, invitationRepo, mailer, log, m, cfg.AdminEmailDomain, cfg.AppBaseURL)
	accessService := usecase.NewAccessService(userRepo, log, cfg.AdminEmails, cfg.ClientEmails, cfg.PilotEmails, cfg.RoleCacheTTL)
	promoService := usecase.NewPromoService(promoRepo, log)
	contactService := usecase.NewContactService(captcha, mailer, log, cfg.ContactInbox)

	// Rate-limit counters live in Redis when configured, in memory otherwise
	var store ratelimit.CounterStore
	if cfg.RedisAddr != "" {
		redisStore, err := ratelimit.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory rate limiting")
		store = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimitMax, cfg.RateLimitWindow)

	googleOAuth := oauth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, log)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Config:      cfg,
		Logger:      log,
		Metrics:     m,
		OAuth:       googleOAuth,
		Limiter:     limiter,
		Bookings:    bookingService,
		Invitations: invitationService,
		Accounts:    accountService,
		Access:      accessService,
		Promos:      promoService,
		Contact:     contactService,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("SleepySquid Drones API stopped")
}

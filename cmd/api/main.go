package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-scout-backend/config"
	_ "go-scout-backend/docs" // Important for Swagger
	"go-scout-backend/internal/delivery/http/api"
	"go-scout-backend/internal/notify"
	"go-scout-backend/internal/repository/postgres"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/auth"
	"go-scout-backend/pkg/database"
	"go-scout-backend/pkg/email"
	"go-scout-backend/pkg/logger"
	"go-scout-backend/pkg/ratelimit"
	redisclient "go-scout-backend/pkg/redis"
	"go-scout-backend/pkg/security"
	"go-scout-backend/pkg/storage"
	"go-scout-backend/pkg/textgen"
	"go-scout-backend/pkg/validation"
)

// @title           Scout Backend API
// @version         2.0
// @description     Recruiting platform API: seekers, companies, scouts, applications and ticket budgets.
// @host            localhost:8080
// @BasePath        /api/v2
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting scout backend", "port", cfg.Port, "env", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DBUrl, cfg.MigrationsPath); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	txManager := database.NewTxManager(dbPool)

	// 4. Setup Redis (optional)
	redisClient, err := redisclient.New(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		if !errors.Is(err, redisclient.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, falling back to in-process state", "error", err)
		}
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// 5. Security logging and login tracking
	secLog := security.NewSecurityLogger(security.NewProductionLogger(), "scout-backend", cfg.Environment)
	defer secLog.Sync()
	if cfg.SecurityLogToDB {
		secLog.SetPersistFunc(security.NewSecurityEventRepository(dbPool).PersistEvent)
	}
	loginTracker := security.NewLoginTracker(redisClient, security.LoginTrackerConfig{
		MaxAttempts:   cfg.LoginMaxAttempts,
		AttemptWindow: cfg.LoginBlock,
		BlockDuration: cfg.LoginBlock,
		UseIPTracking: true,
	}, secLog)

	// 6. Rate limiting
	memStore := ratelimit.NewMemoryStore()
	go memStore.RunSweeper(ctx, time.Minute)
	var primaryStore ratelimit.Store
	if redisClient != nil {
		primaryStore = ratelimit.NewRedisStore(redisClient)
	}
	limiter := ratelimit.NewLimiter(primaryStore, memStore)

	// 7. Notifications
	hub := notify.NewHub(notify.DefaultSubscriberBuffer)
	var bus notify.Bus = notify.NewLocalBus(hub)
	if redisClient != nil {
		redisBus := notify.NewRedisBus(redisClient, hub)
		bus = redisBus
		go func() {
			if err := redisBus.Run(ctx); err != nil {
				logger.Log.Error("Notification bus stopped", "error", err)
			}
		}()
	}

	emailService := email.NewEmailService(email.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
	})
	var mailer notify.Mailer
	if emailService.IsConfigured() {
		mailer = emailService
	} else {
		logger.Log.Warn("Email service not fully configured - notification emails will be skipped")
	}
	dispatcher := notify.NewDispatcher(bus, mailer, cfg.NotifyQueueSize)
	go dispatcher.Run(ctx)

	// 8. Optional integrations
	var pdfLinker usecase.PDFLinker
	if s3Storage, err := storage.NewS3Storage(ctx, storage.Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PresignTTL:      cfg.S3PresignTTL,
	}); err == nil {
		pdfLinker = s3Storage
	} else if !errors.Is(err, storage.ErrNotConfigured) {
		logger.Log.Warn("Object storage unavailable - resume PDF links disabled", "error", err)
	}

	var drafter usecase.ScoutDrafter
	if client, err := textgen.NewClient(textgen.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.TextGenTimeout,
	}); err == nil {
		drafter = client
	} else if !errors.Is(err, textgen.ErrNotConfigured) {
		logger.Log.Warn("Text generation unavailable - scout drafts disabled", "error", err)
	}

	// 9. Token service
	var jwksProvider *auth.Provider
	if cfg.JWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSURL)
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:    cfg.JWTSecret,
		Algorithm: cfg.JWTAlgorithm,
		TTL:       cfg.JWTTTL,
		Issuer:    cfg.JWTIssuer,
		JWKS:      jwksProvider,
	})
	if err != nil {
		logger.Log.Error("Failed to configure token service", "error", err)
		os.Exit(1)
	}

	// 10. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	annotationRepo := postgres.NewAnnotationRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	ledgerRepo := postgres.NewLedgerRepository(dbPool)
	scoutRepo := postgres.NewScoutRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)
	searchRepo := postgres.NewSearchRepository(dbPool)
	dashboardRepo := postgres.NewDashboardRepository(dbPool)
	billingRepo := postgres.NewBillingRepository(dbPool)

	// 11. Setup UseCases
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
	authUC := usecase.NewAuthUsecase(userRepo, tokens, loginTracker, secLog, cfg.DefaultScoutCredits)
	profileUC := usecase.NewProfileUsecase(userRepo, txManager)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, applicationRepo, scoutRepo, userRepo, txManager, dispatcher, pdfLinker)
	annotationUC := usecase.NewAnnotationUsecase(annotationRepo, resumeRepo)
	jobUC := usecase.NewJobUsecase(jobRepo)
	ledgerUC := usecase.NewLedgerUsecase(ledgerRepo, jobRepo, txManager, secLog, cfg.TicketUnitCost)
	scoutUC := usecase.NewScoutUsecase(scoutRepo, userRepo, jobRepo, resumeRepo, ledgerUC, txManager, dispatcher, drafter, secLog,
		usecase.ScoutConfig{TTL: cfg.ScoutTTL, FrontendURL: cfg.FrontendURL})
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, resumeRepo, userRepo, jobRepo, txManager, dispatcher)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, jobRepo, userRepo, ledgerUC, txManager)
	messageUC := usecase.NewMessageUsecase(messageRepo, userRepo, txManager, dispatcher)
	searchUC := usecase.NewSearchUsecase(searchRepo)
	dashboardUC := usecase.NewDashboardUsecase(dashboardRepo)
	adminUC := usecase.NewAdminUsecase(userRepo, txManager, secLog)
	billingUC := usecase.NewBillingUsecase(billingRepo, userRepo, txManager)

	checks := map[string]usecase.HealthCheck{"database": dbPool.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisclient.HealthCheck(ctx, redisClient) }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	go usecase.NewSweeper(scoutUC, interviewUC, cfg.SweepInterval).Run(ctx)

	// 12. Setup Router
	router := api.NewRouter(api.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     profileUC,
		ResumeUC:      resumeUC,
		AnnotationUC:  annotationUC,
		JobUC:         jobUC,
		LedgerUC:      ledgerUC,
		ScoutUC:       scoutUC,
		ApplicationUC: applicationUC,
		InterviewUC:   interviewUC,
		MessageUC:     messageUC,
		SearchUC:      searchUC,
		DashboardUC:   dashboardUC,
		AdminUC:       adminUC,
		BillingUC:     billingUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		Limiter:       limiter,
		Hub:           hub,
		SecLog:        secLog,
		Config:        cfg,
	})

	// 13. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

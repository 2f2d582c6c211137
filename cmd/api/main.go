package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/config"
	"github.com/noah-isme/learnhub-api/internal/database"
	"github.com/noah-isme/learnhub-api/internal/handler"
	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/repository"
	"github.com/noah-isme/learnhub-api/internal/router"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/internal/utils"
	"github.com/noah-isme/learnhub-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.IsProduction() {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseLogSQL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	healthChecks := map[string]handler.HealthCheckFunc{"database": database.SQLCheck(db)}

	var sessions service.SessionTracker = service.NewMemorySessionTracker()
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		sessions = service.NewRedisSessionTracker(redisClient, "")
		healthChecks["redis"] = database.RedisCheck(redisClient)
	} else {
		logger.Warn().Msg("redis not configured, tracking sessions in memory")
	}

	var events service.EventPublisher = service.NewLogEventPublisher(logger)
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer func() { _ = natsConn.Drain() }()
		events = service.NewNATSEventPublisher(natsConn, cfg.NATSSubject)
	}

	var mail service.Mailer = mailer.NewLog(logger)
	if cfg.SendGridAPIKey != "" {
		sendgridMailer, err := mailer.NewSendGrid(mailer.Config{
			APIKey:   cfg.SendGridAPIKey,
			FromName: cfg.AppName,
			From:     cfg.MailFrom,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create sendgrid mailer: %v", err)
		}
		mail = sendgridMailer
	}

	validate := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, assignmentRepo, events, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, validate, cfg.AdminSecret, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	userService := service.NewUserService(userRepo, adminRepo, validate, logger)
	adminService := service.NewAdminService(adminRepo, validate, logger)
	authService := service.NewAuthService(userRepo, adminRepo, tokens, sessions, validate, logger)
	passwordResetService := service.NewPasswordResetService(userRepo, mail, validate, cfg.FrontendURL, logger)

	submitGuard := middleware.RateLimit("submit-assignment", "userId", cfg.SubmissionRateLimit, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: os.Stdout})
	router.Register(app, cfg, router.Dependencies{
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, submitGuard, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		AdminHandler:      handler.NewAdminHandler(adminService, logger),
		AuthHandler:       handler.NewAuthHandler(authService, passwordResetService, middleware.JWTProtected(cfg.JWTSecret), logger),
		HealthChecks:      healthChecks,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

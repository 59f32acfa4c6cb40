package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/config"
	"github.com/examconnect/exam-api/internal/database"
	"github.com/examconnect/exam-api/internal/handler"
	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/repository"
	"github.com/examconnect/exam-api/internal/router"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&identity.Account{}, &models.Profile{}, &models.Exam{}, &models.ExamStudent{}, &models.Question{}, &models.Answer{}, &models.Result{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := storage.New(storage.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create storage client: %v", err)
	}

	issuer, err := identity.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to create token issuer: %v", err)
	}
	directory := identity.NewDirectory(db, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewProfileRepository(db)
	examRepo := repository.NewExamRepository(db)
	examStudentRepo := repository.NewExamStudentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	resultRepo := repository.NewResultRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authService := service.NewAuthService(directory, issuer, profileRepo, validate, logger)
	userService := service.NewUserService(profileRepo, examStudentRepo, statsRepo, directory, redisClient, cfg.StatsCacheTTL, cfg.DefaultStudentPassword, validate, logger)
	examService := service.NewExamService(examRepo, examStudentRepo, validate, logger)
	questionService := service.NewQuestionService(questionRepo, examRepo, validate, uploader, logger)
	submissionService := service.NewSubmissionService(examRepo, examStudentRepo, questionRepo, answerRepo, resultRepo, validate, uploader, logger)
	gradingService := service.NewGradingService(examRepo, questionRepo, examStudentRepo, answerRepo, resultRepo, validate, natsConn, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	adminHandler := handler.NewAdminHandler(userService, examService, logger)
	teacherHandler := handler.NewTeacherHandler(userService, examService, questionService, gradingService, logger)
	studentHandler := handler.NewStudentHandler(submissionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		AdminHandler:   adminHandler,
		TeacherHandler: teacherHandler,
		StudentHandler: studentHandler,
		Authenticate:   middleware.Authenticate(issuer),
	})

	go func() {
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

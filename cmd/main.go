package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pabobernando/confused-be/config"
	"github.com/pabobernando/confused-be/db"
	"github.com/pabobernando/confused-be/handlers"
	"github.com/pabobernando/confused-be/middleware"
	"github.com/pabobernando/confused-be/realtime"
	"github.com/pabobernando/confused-be/repositories"
	api "github.com/pabobernando/confused-be/routes"
	"github.com/pabobernando/confused-be/services"
	"github.com/pabobernando/confused-be/storage"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2). Без учетных данных R2
	// сервис работает, а постеры и логотипы сохраняются как есть.
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 credentials not configured, media payloads will be stored inline")
	}

	// Инициализация WebSocket Hub
	eventHub := realtime.NewHub(logger)
	go eventHub.Run()
	logger.Info("event hub started")

	// Инициализация репозиториев
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	txManager := services.NewSQLTxManager(dbConn)
	authService := services.NewAuthService(adminRepo, cfg.JWTSecretKey, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, participantRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, uploader, eventHub, logger)
	registrationService := services.NewRegistrationService(
		txManager,
		teamRepo,
		tournamentRepo,
		participantRepo,
		uploader,
		eventHub,
		logger,
	)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	routeHandlers := api.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Team:         handlers.NewTeamHandler(teamService),
		WebSocket:    handlers.NewWebSocketHandler(eventHub),
	}
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, logger)

	router := api.InitRoutes(routeHandlers, authenticator)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

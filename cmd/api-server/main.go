package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"libraryhub/database"
	"libraryhub/internal/bootstrap"
	"libraryhub/internal/config"
	"libraryhub/internal/http-api/handler"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	tokenStore, err := repository.NewRedisTokenStore(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	borrowingRepo := repository.NewBorrowingRepository(db)

	// Services
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, tokenStore, cfg)
	bookService := service.NewBookService(bookRepo)
	borrowingService := service.NewBorrowingService(borrowingRepo, bookRepo, userRepo)

	// Default accounts and demo catalog
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := bootstrap.Run(ctx, userService, bookService, cfg, logger); err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(authService, userService)
	authHandler.RegisterRoutes(api.Group("/auth"), rate.Limit(cfg.LoginRatePerSecond), cfg.LoginRateBurst)

	authenticated := api.Group("", middleware.AuthMiddleware(authService))

	bookHandler := handler.NewBookHandler(bookService)
	bookHandler.RegisterRoutes(authenticated.Group("/books"))

	borrowingHandler := handler.NewBorrowingHandler(borrowingService)
	borrowingHandler.RegisterRoutes(authenticated.Group("/borrowings"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

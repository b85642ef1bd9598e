package app

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

	"go-todo-service/internal/cache"
	"go-todo-service/internal/config"
	"go-todo-service/internal/database"
	"go-todo-service/internal/handler"
	"go-todo-service/internal/middleware"
	"go-todo-service/internal/model"
	"go-todo-service/internal/repository"
	"go-todo-service/internal/router"
	"go-todo-service/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), database.PoolConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	seedCreds := []database.SeedCredential{
		{Username: "admin", Password: cfg.SeedAdminPassword, Role: model.RoleAdmin},
		{Username: "developer", Password: cfg.SeedDeveloperPassword, Role: model.RoleDeveloper},
		{Username: "viewer", Password: cfg.SeedViewerPassword, Role: model.RoleViewer},
	}
	if err := db.SeedUsers(context.Background(), seedCreds); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	slog.Info("database ready")

	var todoCache *cache.TodoCache
	if cfg.RedisAddr != "" {
		todoCache, err = cache.New(context.Background(), cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	userRepo := repository.NewUserRepository(db.Pool)
	todoStore := repository.NewTodoStore(db.Pool)

	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL, cfg.TokenIssuer)
	if err != nil {
		todoCache.Close()
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	todoService := service.NewTodoService(func(ctx context.Context) (service.TodoSession, error) {
		return todoStore.Begin(ctx)
	}, todoCache)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(),
		Todo:   handler.NewTodoHandler(todoService),
		Health: handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			func() { todoCache.Close() },
			func() { db.Close() },
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}

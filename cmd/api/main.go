package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/recipebook/recipebook-go/internal/apierror"
	"github.com/recipebook/recipebook-go/internal/config"
	"github.com/recipebook/recipebook-go/internal/handler"
	"github.com/recipebook/recipebook-go/internal/middleware"
	"github.com/recipebook/recipebook-go/internal/repository"
	"github.com/recipebook/recipebook-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(context.Background(), db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	refreshTokenService := service.NewRefreshTokenService(tokenRepo, userRepo, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, refreshTokenService, cfg.JWTSecret, cfg.AccessTokenTTL)
	recipeService := service.NewRecipeService(recipeRepo, userRepo)

	authHandler := handler.NewAuthHandler(authService)
	recipeHandler := handler.NewRecipeHandler(recipeService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(cfg.JWTSecret))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierror.Write(w, apierror.NotFound("Resource", "URL", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierror.Write(w, apierror.MethodNotAllowed(r.Method))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Use(middleware.RequireJSON)
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/signin", authHandler.HandleSignIn)
		r.Post("/refresh", authHandler.HandleRefresh)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireJSON)
		r.Get("/", recipeHandler.HandleList)
		r.Post("/", recipeHandler.HandleCreate)
		r.Get("/{recipeUUID}", recipeHandler.HandleGet)
		r.Put("/{recipeUUID}", recipeHandler.HandleUpdate)
		r.Delete("/{recipeUUID}", recipeHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

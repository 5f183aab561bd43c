package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"starwars/docs"
	"starwars/internal/auth"
	"starwars/internal/cache"
	"starwars/internal/catalog"
	"starwars/internal/config"
	"starwars/internal/db"
	"starwars/internal/handler"
	"starwars/internal/logger"
	"starwars/internal/repository"
	"starwars/internal/router"
	"starwars/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Star Wars Catalog API
// @version 1.0
// @description Characters and planets mirrored from SWAPI, with per-user favorites and JWT authentication.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer db.Close(gormDB)

	if err := db.RunMigrations(gormDB, cfg.DBDriver, appLog); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, catalog.Options{
		RateLimit: cfg.CatalogRateLimit,
		RateBurst: cfg.CatalogRateBurst,
		Timeout:   cfg.CatalogTimeout,
		Logger:    appLog,
	})
	if err != nil {
		log.Fatalf("catalog client: %v", err)
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(store, jwtService, tokenStore, appLog)
	userService := service.NewUserService(store)
	characterService := service.NewCharacterService(store, appLog)
	planetService := service.NewPlanetService(store, appLog)
	favoriteService := service.NewFavoriteService(store, appLog)

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("database handle: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, appLog, authService, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService, authService),
		Characters: handler.NewCharacterHandler(characterService),
		Planets:    handler.NewPlanetHandler(planetService),
		Favorites:  handler.NewFavoriteHandler(favoriteService),
		Population: handler.NewPopulationHandler(catalogClient, characterService, planetService, appLog),
		Health: handler.NewHealthHandler(
			map[string]handler.Check{"database": sqlDB.PingContext},
			map[string]handler.Check{"redis": cacheClient.Ping},
		),
	})

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	appLog.Info("swagger documentation available", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		appLog.Info("server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", "error", err)
	}
}

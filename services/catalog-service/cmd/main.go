package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keamoral/ouijagames/gomicro/config"
	"github.com/keamoral/ouijagames/gomicro/database"
	"github.com/keamoral/ouijagames/gomicro/jwtutil"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/gomicro/metrics"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/repository"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/server"
	"github.com/keamoral/ouijagames/services/catalog-service/prometheus"
	"go.uber.org/zap"
)

const serviceName = "catalog-service"

func main() {
	appConfig, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog-service", appConfig.LogConfig()...)

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      appConfig.JWT.SigningKey,
		ExpirationHours: appConfig.JWT.ExpirationHours,
	})

	repo, err := openRepository(appConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}

	seeded, err := repository.SeedCategories(context.Background(), repo, repository.DefaultCategories())
	if err != nil {
		log.Fatal("Failed to seed categories", zap.Error(err))
	}
	if seeded > 0 {
		log.Info("Seeded default categories", zap.Int("count", seeded))
	}

	e := server.NewRouter(server.Deps{
		Repo:        repo,
		JWT:         jwtUtil,
		Metrics:     prometheus.NewMetrics(appConfig.Metrics.Prefix, nil),
		HTTPMetrics: metrics.NewHTTPMetrics(serviceName, nil),
	})

	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

func openRepository(appConfig *config.Config, log *zap.Logger) (repository.Repository, error) {
	if appConfig.Store.Driver != "postgres" {
		log.Info("Using in-memory catalog store")
		return repository.NewMemoryRepository(), nil
	}

	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established")

	repo := repository.NewGormRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	log.Info("Database migrations completed")
	return repo, nil
}

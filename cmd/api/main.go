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

	"test-rol/internal/config"
	"test-rol/internal/db"
	apihttp "test-rol/internal/http"
	"test-rol/internal/questionnaire"
	"test-rol/internal/repository"
	"test-rol/internal/rolapi"
	"test-rol/internal/service"
	"test-rol/internal/session"
	"test-rol/internal/sink"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	catalog := questionnaire.DefaultCatalog()
	if cfg.CatalogFile != "" {
		catalog, err = questionnaire.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			logger.Fatal("load catalog", zap.String("path", cfg.CatalogFile), zap.Error(err))
		}
	}

	rolClient := rolapi.NewClient(cfg.RolAPIBaseURL, &http.Client{
		Timeout: time.Duration(cfg.RolAPITimeoutSeconds) * time.Second,
	}, logger)

	var (
		pool          *pgxpool.Pool
		resultSinks   = []sink.Sink{rolClient}
		resultsSource service.ResultsSource = rolClient
	)
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		resultRepo := repository.NewPgResultRepository(pool)
		resultSinks = append(resultSinks, resultRepo)
		resultsSource = resultRepo
	}

	progressTTL := time.Duration(cfg.ProgressTTLMinutes) * time.Minute
	loginWindow := time.Duration(cfg.LoginRateWindowMin) * time.Minute
	var (
		progressStore = repository.NewMemoryProgressStore(progressTTL)
		loginLimiter  = service.NewLoginRateLimiter(loginWindow, cfg.LoginRateMax)
		tokenStore    service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			progressStore = repository.NewRedisProgressStore(redisClient, progressTTL)
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	dispatcher := sink.NewDispatcher(sink.Multi(resultSinks...), logger, sink.Options{
		Workers:   cfg.SinkWorkers,
		QueueSize: cfg.SinkQueueSize,
		Timeout:   time.Duration(cfg.SinkTimeoutSeconds) * time.Second,
	})

	hub := session.NewHub()
	testSvc := service.NewTestService(logger, catalog, progressStore, dispatcher)
	defer testSvc.Watch(hub)()
	authSvc := service.NewAuthService(logger, rolClient, jwtSvc, loginLimiter, hub)
	adminSvc := service.NewAdminService(logger, resultsSource)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewAuthHandler(logger, authSvc),
		apihttp.NewTestHandler(logger, testSvc),
		apihttp.NewAdminHandler(logger, adminSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("sink dispatcher close", zap.Error(err))
	}
}

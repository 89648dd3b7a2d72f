package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"lg/nutrition-go-api/internal/config"
	"lg/nutrition-go-api/internal/fdc"
	"lg/nutrition-go-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server stopped", nil)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := getDBPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("DB pool ready", nil)

	h := &Handler{
		store:            newPGStore(pool, log),
		foods:            newFoodLookup(ctx, cfg, log),
		log:              log,
		rankDefaultLimit: cfg.Ranking.DefaultLimit,
		rankMaxLimit:     cfg.Ranking.MaxLimit,
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newFoodLookup builds the FoodData Central client and, when Redis is
// configured and reachable, puts the cache in front of it.
func newFoodLookup(ctx context.Context, cfg *config.Config, log logger.Logger) fdc.FoodLookup {
	client := fdc.NewClient(fdc.Options{
		BaseURL:   cfg.FDC.BaseURL,
		APIKey:    cfg.FDC.APIKey,
		Timeout:   cfg.FDC.Timeout,
		PageSize:  cfg.FDC.PageSize,
		BatchSize: cfg.FDC.BatchSize,
	}, log.WithFields(map[string]interface{}{"component": "fdc"}))

	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, food cache disabled", nil)
		return client
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, food cache disabled", map[string]interface{}{"addr": cfg.Redis.Addr})
		rdb.Close()
		return client
	}
	return fdc.NewCachedLookup(client, rdb, cfg.Redis.CacheTTL, log.WithFields(map[string]interface{}{"component": "cache"}))
}

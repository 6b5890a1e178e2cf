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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/catalog"
	"github.com/fjod/shopfront/internal/httpx"
	"github.com/fjod/shopfront/internal/session"
	"github.com/fjod/shopfront/internal/store"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	RedisAddr       string
	StateDir        string
	CatalogTTL      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8000"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		StateDir:        getEnv("STATE_DIR", ".shopfront-admin"),
		CatalogTTL:      getEnvDuration("CATALOG_TTL", time.Minute),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("invalid %s, using default %s", key, defaultValue)
	}
	return defaultValue
}

func newStore(cfg *Config, namespace string) (store.Store, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, namespace), nil
	}
	return store.NewFileStore(cfg.StateDir)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := loadConfig()

	st, err := newStore(cfg, "admin")
	if err != nil {
		log.Fatalf("init state store: %v", err)
	}

	client := api.New(cfg.APIBaseURL)
	sess := session.New(client, st, session.WithRequiredRole("admin"))

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sess.Restore(startupCtx)
	cancel()

	adm := &httpx.Admin{
		API:     client,
		Session: sess,
		Catalog: catalog.New(client, cfg.CatalogTTL),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpx.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	adm.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("admin console starting on :%s (api: %s)", cfg.HTTPPort, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

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
	"github.com/fjod/shopfront/internal/cart"
	"github.com/fjod/shopfront/internal/catalog"
	"github.com/fjod/shopfront/internal/httpx"
	"github.com/fjod/shopfront/internal/notify"
	"github.com/fjod/shopfront/internal/session"
	"github.com/fjod/shopfront/internal/store"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	RedisAddr       string
	StateDir        string
	CatalogTTL      time.Duration
	NotifyTTL       time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8000"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		StateDir:        getEnv("STATE_DIR", ".shopfront"),
		CatalogTTL:      getEnvDuration("CATALOG_TTL", time.Minute),
		NotifyTTL:       getEnvDuration("NOTIFY_TTL", 5*time.Second),
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

// newStore picks the state backend: redis when REDIS_ADDR is set (shared
// kiosk deployments), one file per slot otherwise.
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

	st, err := newStore(cfg, "storefront")
	if err != nil {
		log.Fatalf("init state store: %v", err)
	}

	client := api.New(cfg.APIBaseURL)
	sess := session.New(client, st)
	crt := cart.New(st)

	// hydrate persisted state before serving a single request
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sess.Restore(startupCtx)
	crt.Hydrate(startupCtx)
	cancel()

	sf := &httpx.Storefront{
		API:     client,
		Session: sess,
		Cart:    crt,
		Catalog: catalog.New(client, cfg.CatalogTTL),
		Notify:  notify.NewQueue(cfg.NotifyTTL),
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

	sf.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (api: %s)", cfg.HTTPPort, cfg.APIBaseURL)
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

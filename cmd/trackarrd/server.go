package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/trackarr/internal/api/v1"
	"github.com/vmunix/trackarr/internal/config"
	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/metadata"
	"github.com/vmunix/trackarr/internal/metrics"
	"github.com/vmunix/trackarr/internal/migrations"
	"github.com/vmunix/trackarr/internal/server"
	"github.com/vmunix/trackarr/internal/syncer"
	"github.com/vmunix/trackarr/internal/tmdb"
	"github.com/vmunix/trackarr/pkg/trakt"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	if configPath == "" {
		var err error
		configPath, err = config.Discover()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return &config.ConfigError{Path: configPath, Errors: errs}
	}

	logger := newLogger(cfg.Server)

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores ===
	store := library.NewStore(db)

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// === Metrics ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// === Clients ===
	traktOpts := []trakt.Option{
		trakt.WithLogger(logger.With("component", "trakt")),
		trakt.WithTokenRefreshCallback(func(pair trakt.TokenPair) {
			err := store.SetTraktTokens(library.TraktTokens{
				AccessToken:  pair.AccessToken,
				RefreshToken: pair.RefreshToken,
				ExpiresAt:    pair.ExpiresAt(),
			})
			if err != nil {
				logger.Error("persist tokens failed", "error", err)
			}
		}),
	}
	if stored, err := store.GetTraktTokens(); err != nil {
		return fmt.Errorf("load tokens: %w", err)
	} else if stored.AccessToken != "" {
		traktOpts = append(traktOpts, trakt.WithTokens(trakt.TokenPair{
			AccessToken:  stored.AccessToken,
			RefreshToken: stored.RefreshToken,
			ExpiresIn:    int(time.Until(stored.ExpiresAt).Seconds()),
			CreatedAt:    time.Now().Unix(),
		}))
	}
	source := trakt.New(cfg.Trakt.ClientID, cfg.Trakt.ClientSecret, traktOpts...)

	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey)

	// === Services ===
	meta := metadata.NewService(tmdbClient, metadata.NewCache(db), logger.With("component", "metadata"))

	imp := syncer.NewImporter(source, meta, store, syncer.Config{
		BingeThreshold: cfg.Sync.BingeThreshold,
		AutoSync:       cfg.Sync.Auto,
	}, logger)
	imp.SetBus(bus)
	imp.SetMetrics(m)
	jobs := syncer.NewJobManager(imp)

	// === HTTP Setup ===
	mux := http.NewServeMux()
	apiV1 := v1.New(store, imp, jobs, source, version)
	apiV1.SetEventLog(eventLog)
	apiV1.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"authenticated", source.IsAuthenticated(),
		"auto_sync", cfg.Sync.Auto,
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(server.Config{
		Addr:           addr,
		AutoSync:       cfg.Sync.Auto,
		SyncInterval:   cfg.Sync.Interval.Std(),
		EventRetention: cfg.Events.Retention.Std(),
	}, logRequests(mux, logger), imp, jobs, eventLog, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

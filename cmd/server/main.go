package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/JonMunkholm/clubhouse/internal/auth"
	"github.com/JonMunkholm/clubhouse/internal/config"
	"github.com/JonMunkholm/clubhouse/internal/files"
	"github.com/JonMunkholm/clubhouse/internal/games"
	"github.com/JonMunkholm/clubhouse/internal/logging"
	"github.com/JonMunkholm/clubhouse/internal/mail"
	"github.com/JonMunkholm/clubhouse/internal/practice"
	"github.com/JonMunkholm/clubhouse/internal/roster"
	"github.com/JonMunkholm/clubhouse/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"mail_enabled", cfg.Mail.Enabled,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload directory", "dir", cfg.Storage.UploadDir, "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	mailer := mail.New(cfg.Mail, slog.Default())
	storage := files.NewStorage(cfg.Storage.UploadDir, cfg.Storage.MaxFileSize)

	svc := web.Services{
		Auth:     auth.NewService(auth.NewRepository(pool), mailer, clock, cfg.Session.TTL),
		Roster:   roster.NewService(roster.NewRepository(pool), clock),
		Files:    files.NewService(files.NewRepository(pool), storage, clock),
		Practice: practice.NewService(practice.NewRepository(pool), clock),
		Games:    games.NewService(games.NewRepository(pool), clock),
		Storage:  storage,
	}

	server := web.NewServer(cfg, svc)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

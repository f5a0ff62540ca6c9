package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/blob"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/db"
	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/notify"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/router"
	"github.com/danielhkuo/newsdesk/syncstore"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		slog.Error("invalid database type", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", dialect)

	// Change notifications: Redis when instances share a database
	var notifier notify.Notifier
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		notifier, err = notify.NewRedis(ctx, cfg.RedisAddr, notify.DefaultRedisChannel)
		cancel()
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Change fan-out via redis", "addr", cfg.RedisAddr)
	} else {
		notifier = notify.NewLocal()
	}
	defer notifier.Close()

	docs := docstore.New(dbConn, dialect, notifier)
	store := syncstore.New(docs)
	defer store.Close()
	svc := portal.NewService(docs, store)
	defer svc.Close()

	deps := router.Deps{
		Portal:   svc,
		Admins:   auth.NewAdmins(dbConn, dialect),
		Sessions: auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies),
		Config:   cfg,
	}

	// Image storage
	switch cfg.BlobBackend {
	case cliparse.BlobS3:
		s3Store, err := blob.NewS3Store(cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			slog.Error("s3 setup failed", "error", err)
			os.Exit(1)
		}
		deps.Blobs = s3Store
	default:
		local, err := blob.NewLocalStore(cfg.UploadDir, cfg.PublicURL+"/uploads")
		if err != nil {
			slog.Error("upload dir setup failed", "error", err)
			os.Exit(1)
		}
		deps.Blobs = local
		deps.Files = local.Handler()
	}

	// Leave Google as a nil interface when it is not configured
	if cfg.GoogleEnabled() {
		deps.Google = auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		slog.Info("Google sign-in enabled")
	}

	// Create router
	mux := router.NewRouter(deps)

	// Create server
	server := http.Server{
		Handler: middleware.Stack(mux, cfg.PublicURL),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Live sockets are hijacked and not tracked by Shutdown
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "public_url", cfg.PublicURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

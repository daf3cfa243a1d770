package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/ailog"
	"github.com/tmshq/tms/internal/api"
	"github.com/tmshq/tms/internal/config"
	"github.com/tmshq/tms/internal/database"
	"github.com/tmshq/tms/internal/group"
	"github.com/tmshq/tms/internal/org"
	"github.com/tmshq/tms/internal/project"
	"github.com/tmshq/tms/internal/requirement"
	"github.com/tmshq/tms/internal/role"
	"github.com/tmshq/tms/internal/session"
	"github.com/tmshq/tms/internal/testcase"
	"github.com/tmshq/tms/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Bootstrap(ctx, db.Pool())
	cancel()
	if err != nil {
		slog.Error("failed to bootstrap database schema", "error", err)
		os.Exit(1)
	}

	roles := role.NewRepository(db.Pool())
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := roles.Ensure(ctx, "admin", true); err != nil {
		slog.Error("failed to seed admin role", "error", err)
		os.Exit(1)
	}
	memberRole, err := roles.Ensure(ctx, "member", false)
	if err != nil {
		slog.Error("failed to seed member role", "error", err)
		os.Exit(1)
	}

	users := user.NewRepository(db.Pool())
	projects := project.NewRepository(db.Pool())
	groups := group.NewRepository(db.Pool())

	sessions := session.NewService(session.NewTokenRepository(db.Pool()), users, cfg.TokenTTLDays)
	resolver := access.NewResolver(projects)
	sharing := access.NewSharing(resolver, projects, users, groups, cfg.AllowCrossOrgMembers)

	router := api.NewRouter(api.RouterDeps{
		DBPinger: db,
		Version:  cfg.Version,

		Sessions: sessions,
		Resolver: resolver,
		Sharing:  sharing,

		Orgs:         org.NewRepository(db.Pool()),
		Roles:        roles,
		Users:        users,
		Groups:       groups,
		Projects:     projects,
		Requirements: requirement.NewRepository(db.Pool()),
		TestCases:    testcase.NewRepository(db.Pool()),
		Logs:         ailog.NewRepository(db.Pool()),

		DefaultRoleID: memberRole.ID,
		BcryptCost:    cfg.BcryptCost,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting TMS server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

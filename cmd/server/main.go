package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/handler"
	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/repository/sqldb"
	"github.com/KI0T0/teste-back-end-teddy/pkg/config"
	"github.com/KI0T0/teste-back-end-teddy/pkg/core/services"
	"github.com/KI0T0/teste-back-end-teddy/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg)

	mux, db, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "driver", db.Driver(), "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// newApp opens storage and wires services into the router.
func newApp(cfg *config.Config, logger *slog.Logger) (http.Handler, *sqldb.DB, error) {
	db, err := sqldb.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	links := sqldb.NewLinkRepository(db)
	users := sqldb.NewUserRepository(db)
	generator := services.NewShortCodeGenerator(links, cfg.ShortCodeLength, cfg.AllowCustomAlias)

	mux := handler.NewRouter(cfg, handler.Services{
		Links:    services.NewLinkService(links, generator, cfg.BaseURL, cfg.ShortCodeLength, logger),
		Redirect: services.NewRedirectService(links, logger),
		Auth:     services.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, logger),
	}, logger)

	return mux, db, nil
}

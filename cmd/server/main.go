package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rajarajendra1103/InnoLink/internal/app"
	"github.com/rajarajendra1103/InnoLink/internal/config"
	"github.com/rajarajendra1103/InnoLink/internal/logging"
	"github.com/rajarajendra1103/InnoLink/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := configPath()

	cfg, err := config.Resolve(cfgPath)
	if err != nil {
		bootLogger := logging.New("error", "json")
		bootLogger.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Debug().Msg("no .env file found, using environment")
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start innolink")
	}
	defer a.Close(context.Background())

	srv := server.NewServer(a.Service, cfg.LLM.Provider, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Server.Port).
			Str("oracle", cfg.LLM.Provider).
			Str("on_oracle_failure", cfg.Novelty.OnOracleFailure).
			Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// configPath honours CONFIG_PATH and falls back to the repository default.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.toml"
}

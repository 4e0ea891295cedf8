package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/rajarajendra1103/InnoLink/internal/config"
	"github.com/rajarajendra1103/InnoLink/internal/core"
	"github.com/rajarajendra1103/InnoLink/internal/driver"
	"github.com/rajarajendra1103/InnoLink/internal/logging"
	"github.com/rajarajendra1103/InnoLink/internal/seed"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "seed/corpus.toml", "TOML file of corpus items")
	flag.Parse()

	cfgPath := configPath()
	cfg, err := config.Resolve(cfgPath)
	if err != nil {
		bootLogger := logging.New("error", "json")
		bootLogger.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	items, err := seed.LoadFile(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("failed to read seed file")
	}

	ctx := context.Background()
	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to memgraph")
	}
	defer d.Close(ctx)

	svc := core.NewInnoLink(d, nil, core.RegistrationPolicy{}, logger)
	if err := svc.BuildIndices(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to build indices")
	}

	n, err := seed.Apply(ctx, svc, items)
	if err != nil {
		logger.Error().Err(err).Int("saved", n).Msg("seeding stopped")
		d.Close(ctx)
		os.Exit(1)
	}
	logger.Info().Int("saved", n).Str("file", *file).Msg("corpus seeded")
}

// configPath honours CONFIG_PATH and falls back to the repository default.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.toml"
}

// Package app wires configuration into a running idea service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rajarajendra1103/InnoLink/internal/config"
	"github.com/rajarajendra1103/InnoLink/internal/core"
	"github.com/rajarajendra1103/InnoLink/internal/core/novelty"
	"github.com/rajarajendra1103/InnoLink/internal/driver"
	"github.com/rajarajendra1103/InnoLink/internal/llm"
	"github.com/rajarajendra1103/InnoLink/internal/observability"
	"github.com/rajarajendra1103/InnoLink/internal/quota"
)

type App struct {
	Service *core.InnoLink
	Driver  driver.GraphDriver
	Redis   *redis.Client
	closers []func(context.Context) error
}

// NewEvaluator builds the oracle chain (LLM oracle, concurrency guard, optional
// quota) and the evaluator on top of it.
func NewEvaluator(cfg *config.Config, client llm.LLMClient, limiter novelty.Limiter, logger zerolog.Logger) (*novelty.Evaluator, error) {
	thresholds := novelty.Thresholds{
		Improve:     cfg.Novelty.ImproveThreshold,
		Collaborate: cfg.Novelty.CollaborateThreshold,
	}

	if err := novelty.ValidatePromptTemplate(cfg.Prompts.Novelty); err != nil {
		return nil, fmt.Errorf("prompts.novelty: %w", err)
	}

	oracle := novelty.NewLLMOracle(client, cfg.LLM.Provider, cfg.Prompts.Novelty, thresholds)
	guarded := novelty.NewGuardedOracle(oracle, cfg.Novelty.MaxConcurrent, limiter, logger)

	return novelty.NewEvaluator(guarded, novelty.Options{
		Thresholds:      thresholds,
		CorpusLimit:     cfg.Novelty.CorpusLimit,
		Timeout:         cfg.Novelty.OracleTimeout(),
		OnOracleFailure: novelty.FailurePolicy(cfg.Novelty.OnOracleFailure),
		Logger:          logger,
	})
}

// New connects to Memgraph, Redis (when configured) and the LLM provider.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	observability.RegisterMetrics()
	a := &App{}

	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise llm client: %w", err)
	}
	if c, ok := client.(interface{ Close() error }); ok {
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	}

	var limiter novelty.Limiter
	if cfg.Redis.URL != "" {
		rdb, err := quota.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.Redis = rdb
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		if cfg.Novelty.QuotaPerMinute > 0 {
			limiter = quota.NewRedisLimiter(rdb, "", cfg.Novelty.QuotaPerMinute, time.Minute)
			logger.Info().Int("per_minute", cfg.Novelty.QuotaPerMinute).Msg("oracle quota enabled")
		}
	}

	evaluator, err := NewEvaluator(cfg, client, limiter, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Driver = d
	a.closers = append(a.closers, d.Close)

	a.Service = core.NewInnoLink(d, evaluator, core.RegistrationPolicy{
		DefaultLockDays: cfg.Registration.DefaultLockDays,
		MaxLockDays:     cfg.Registration.MaxLockDays,
	}, logger)

	if err := a.Service.BuildIndices(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i](ctx)
	}
	a.closers = nil
}

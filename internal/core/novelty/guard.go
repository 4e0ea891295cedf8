package novelty

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
)

var ErrQuotaExceeded = errors.New("novelty oracle quota exceeded")

// Limiter is a deployment-wide request budget for the oracle.
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// GuardedOracle caps in-flight oracle calls for this process and, when a
// Limiter is set, the request rate across the deployment.
type GuardedOracle struct {
	next    NoveltyOracle
	slots   *semaphore.Weighted
	limiter Limiter
	logger  zerolog.Logger
}

func NewGuardedOracle(next NoveltyOracle, maxConcurrent int, limiter Limiter, logger zerolog.Logger) *GuardedOracle {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &GuardedOracle{
		next:    next,
		slots:   semaphore.NewWeighted(int64(maxConcurrent)),
		limiter: limiter,
		logger:  logger,
	}
}

func (g *GuardedOracle) Score(ctx context.Context, ideaText string, corpus []model.CorpusItem) (RawOracleResponse, error) {
	if err := g.slots.Acquire(ctx, 1); err != nil {
		return RawOracleResponse{}, fmt.Errorf("waiting for oracle slot: %w", err)
	}
	defer g.slots.Release(1)

	if g.limiter != nil {
		allowed, err := g.limiter.Allow(ctx)
		switch {
		case err != nil:
			// Fail open when the quota store is unreachable.
			g.logger.Warn().Err(err).Msg("oracle quota check failed, allowing request")
		case !allowed:
			return RawOracleResponse{}, ErrQuotaExceeded
		}
	}

	return g.next.Score(ctx, ideaText, corpus)
}

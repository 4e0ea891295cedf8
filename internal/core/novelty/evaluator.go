// Package novelty decides whether a submitted idea is new, overlaps an existing
// item, or duplicates one, by consulting an external semantic oracle.
//
// The evaluator never fails because of the oracle under the default policy:
// transport errors, timeouts, an exhausted quota and unparsable payloads all
// produce the fallback verdict (score 0, Publish, no match, Fallback=true).
// A total oracle outage therefore passes every submission as novel. Each
// substitution is logged and counted in innolink_novelty_fallbacks_total.
package novelty

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rajarajendra1103/InnoLink/internal/observability"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrOracleUnavailable = errors.New("novelty oracle unavailable")
)

// FailurePolicy selects what Evaluate does when the oracle cannot be consulted.
type FailurePolicy string

const (
	AssumeNovel      FailurePolicy = "assume_novel"
	RejectSubmission FailurePolicy = "reject_submission"
)

const FallbackSummary = "Automated analysis unavailable. Proceeding with manual review."

const (
	DefaultCorpusLimit = 15
	DefaultTimeout     = 10 * time.Second
)

// Fallback reasons, used as log fields and metric labels.
const (
	reasonTimeout   = "timeout"
	reasonCanceled  = "canceled"
	reasonQuota     = "quota"
	reasonMalformed = "malformed"
	reasonPrompt    = "prompt"
	reasonTransport = "transport"
)

type Options struct {
	Thresholds      Thresholds
	CorpusLimit     int
	Timeout         time.Duration
	OnOracleFailure FailurePolicy
	Logger          zerolog.Logger
}

type Evaluator struct {
	Oracle NoveltyOracle
	opts   Options
	logger zerolog.Logger
}

func NewEvaluator(oracle NoveltyOracle, opts Options) (*Evaluator, error) {
	if oracle == nil {
		return nil, fmt.Errorf("novelty oracle is required")
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if opts.CorpusLimit <= 0 {
		opts.CorpusLimit = DefaultCorpusLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	switch opts.OnOracleFailure {
	case "":
		opts.OnOracleFailure = AssumeNovel
	case AssumeNovel, RejectSubmission:
	default:
		return nil, fmt.Errorf("unknown oracle failure policy %q", opts.OnOracleFailure)
	}

	return &Evaluator{
		Oracle: oracle,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "novelty").Logger(),
	}, nil
}

func (e *Evaluator) Thresholds() Thresholds { return e.opts.Thresholds }

func (e *Evaluator) CorpusLimit() int { return e.opts.CorpusLimit }

// Evaluate scores ideaText against corpus. Only ErrInvalidInput is returned
// under AssumeNovel; under RejectSubmission oracle failures surface as
// ErrOracleUnavailable instead of the fallback verdict.
func (e *Evaluator) Evaluate(ctx context.Context, ideaText string, corpus []model.CorpusItem) (model.NoveltyVerdict, error) {
	if strings.TrimSpace(ideaText) == "" {
		return model.NoveltyVerdict{}, fmt.Errorf("%w: idea text is empty", ErrInvalidInput)
	}

	candidates := TruncateCorpus(corpus, e.opts.CorpusLimit)

	octx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	raw, err := e.Oracle.Score(octx, ideaText, candidates)
	if err != nil {
		return e.onOracleFailure(err)
	}
	if math.IsNaN(raw.Score) || math.IsInf(raw.Score, 0) {
		return e.onOracleFailure(fmt.Errorf("%w: score is not a finite number", ErrMalformedResponse))
	}

	verdict := e.interpret(raw, candidates)
	observability.Evaluations().WithLabelValues(string(verdict.Classification)).Inc()
	return verdict, nil
}

func (e *Evaluator) interpret(raw RawOracleResponse, candidates []model.CorpusItem) model.NoveltyVerdict {
	score, clamped := normalizeScore(raw.Score)
	if clamped {
		observability.Anomalies().WithLabelValues("score_out_of_range").Inc()
		e.logger.Warn().Float64("raw_score", raw.Score).Int("score", score).Msg("oracle score out of range, clamped")
	}

	classification := Classify(score, e.opts.Thresholds)
	if hint, ok := ParseRecommendation(raw.Recommendation); ok && hint != classification {
		e.logger.Debug().
			Str("oracle_label", string(hint)).
			Str("classification", string(classification)).
			Int("score", score).
			Msg("oracle label disagrees with threshold band")
	}

	verdict := model.NoveltyVerdict{
		Summary:        strings.TrimSpace(raw.Summary),
		NoveltyScore:   score,
		Classification: classification,
	}

	if classification == model.ClassificationPublish || raw.MatchedItem == nil {
		return verdict
	}

	verdict.MatchedItem = resolveMatch(*raw.MatchedItem, candidates)
	if verdict.MatchedItem == nil && (raw.MatchedItem.ID != "" || raw.MatchedItem.Title != "") {
		observability.Anomalies().WithLabelValues("match_not_in_corpus").Inc()
		e.logger.Warn().
			Str("match_id", raw.MatchedItem.ID).
			Str("match_title", raw.MatchedItem.Title).
			Msg("oracle named a match outside the corpus, dropped")
	}
	return verdict
}

func (e *Evaluator) onOracleFailure(err error) (model.NoveltyVerdict, error) {
	reason := failureReason(err)
	observability.Fallbacks().WithLabelValues(reason).Inc()

	if e.opts.OnOracleFailure == RejectSubmission {
		e.logger.Warn().Err(err).Str("reason", reason).Msg("novelty oracle unavailable, rejecting submission")
		return model.NoveltyVerdict{}, fmt.Errorf("%w (%s): %v", ErrOracleUnavailable, reason, err)
	}

	e.logger.Warn().Err(err).Str("reason", reason).Msg("novelty oracle unavailable, substituting fallback verdict")
	observability.Evaluations().WithLabelValues(string(model.ClassificationPublish)).Inc()
	return FallbackVerdict(), nil
}

// FallbackVerdict is what callers see when the oracle could not be consulted.
func FallbackVerdict() model.NoveltyVerdict {
	return model.NoveltyVerdict{
		Summary:        FallbackSummary,
		NoveltyScore:   0,
		Classification: model.ClassificationPublish,
		MatchedItem:    nil,
		Fallback:       true,
	}
}

// TruncateCorpus keeps the first limit items in their given order.
func TruncateCorpus(corpus []model.CorpusItem, limit int) []model.CorpusItem {
	if limit <= 0 || len(corpus) <= limit {
		out := make([]model.CorpusItem, len(corpus))
		copy(out, corpus)
		return out
	}
	out := make([]model.CorpusItem, limit)
	copy(out, corpus[:limit])
	return out
}

// resolveMatch returns the corpus entry the oracle pointed at, by id or, when
// the id is missing, by exact title. Title and author come from the corpus.
func resolveMatch(m RawMatch, candidates []model.CorpusItem) *model.MatchedItem {
	id := strings.TrimSpace(m.ID)
	title := strings.TrimSpace(m.Title)

	for _, c := range candidates {
		if (id != "" && c.ID == id) || (id == "" && title != "" && strings.EqualFold(c.Title, title)) {
			return &model.MatchedItem{ID: c.ID, Title: c.Title, Author: c.Author}
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, context.Canceled):
		return reasonCanceled
	case errors.Is(err, ErrQuotaExceeded):
		return reasonQuota
	case errors.Is(err, ErrMalformedResponse):
		return reasonMalformed
	case errors.Is(err, ErrPromptTemplate):
		return reasonPrompt
	default:
		return reasonTransport
	}
}

package novelty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rajarajendra1103/InnoLink/internal/core/common"
	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rajarajendra1103/InnoLink/internal/llm"
	"github.com/rajarajendra1103/InnoLink/internal/observability"
)

// ErrMalformedResponse covers oracle payloads that cannot be parsed or fail the response schema.
var ErrMalformedResponse = errors.New("malformed oracle response")

type RawMatch struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// RawOracleResponse is the oracle's answer before any validation or correction.
type RawOracleResponse struct {
	Summary        string    `json:"summary"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation"`
	MatchedItem    *RawMatch `json:"matchedItem"`
}

// NoveltyOracle compares one idea with a candidate corpus.
type NoveltyOracle interface {
	Score(ctx context.Context, ideaText string, corpus []model.CorpusItem) (RawOracleResponse, error)
}

// LLMOracle asks a generative model to do the comparison.
type LLMOracle struct {
	LLM        llm.LLMClient
	Provider   string
	Prompt     string
	Thresholds Thresholds
	tracer     trace.Tracer
}

func NewLLMOracle(client llm.LLMClient, provider string, promptTemplate string, thresholds Thresholds) *LLMOracle {
	return &LLMOracle{
		LLM:        client,
		Provider:   provider,
		Prompt:     promptTemplate,
		Thresholds: thresholds,
		tracer:     otel.Tracer("github.com/rajarajendra1103/InnoLink/internal/core/novelty"),
	}
}

func (o *LLMOracle) Score(parent context.Context, ideaText string, corpus []model.CorpusItem) (RawOracleResponse, error) {
	ctx, span := o.tracer.Start(parent, "novelty.oracle.score", trace.WithAttributes(
		attribute.String("provider", o.Provider),
		attribute.Int("corpus_size", len(corpus)),
	))
	defer span.End()

	prompt, err := BuildPrompt(o.Prompt, ideaText, corpus, o.Thresholds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RawOracleResponse{}, err
	}

	start := time.Now()
	response, err := o.LLM.Generate(ctx, prompt)
	observability.OracleLatency().WithLabelValues(o.Provider).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RawOracleResponse{}, fmt.Errorf("failed to generate novelty analysis: %w", err)
	}

	raw, err := parseOracleResponse(response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RawOracleResponse{}, err
	}

	span.SetAttributes(attribute.Float64("raw_score", raw.Score))
	return raw, nil
}

func parseOracleResponse(response string) (RawOracleResponse, error) {
	doc, err := common.ParseJSON[map[string]interface{}](response)
	if err != nil {
		return RawOracleResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := oracleResponseSchema.Validate(doc); err != nil {
		return RawOracleResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	raw, err := common.ParseJSON[RawOracleResponse](response)
	if err != nil {
		return RawOracleResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return raw, nil
}

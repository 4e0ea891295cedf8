package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rajarajendra1103/InnoLink/internal/core/novelty"
	"github.com/rajarajendra1103/InnoLink/internal/driver"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	// ErrCollaborationRequired is returned when registering an idea whose score falls in the Collaborate band.
	ErrCollaborationRequired = errors.New("idea overlaps an existing item, collaborate instead")
)

// IdeaEvaluator scores an idea against a corpus snapshot.
type IdeaEvaluator interface {
	Evaluate(ctx context.Context, ideaText string, corpus []model.CorpusItem) (model.NoveltyVerdict, error)
	CorpusLimit() int
	Thresholds() novelty.Thresholds
}

const defaultCorpusLimit = 15

type RegistrationPolicy struct {
	DefaultLockDays int
	MaxLockDays     int
}

// InnoLink ties the corpus store, the novelty evaluator and idea registrations
// together. Evaluator may be nil for tools that only write the corpus.
type InnoLink struct {
	Driver       driver.GraphDriver
	Evaluator    IdeaEvaluator
	Registration RegistrationPolicy

	UUIDGenerator func() string
	Clock         func() time.Time

	validate *validator.Validate
	logger   zerolog.Logger
}

func NewInnoLink(d driver.GraphDriver, evaluator IdeaEvaluator, policy RegistrationPolicy, logger zerolog.Logger) *InnoLink {
	if policy.DefaultLockDays <= 0 {
		policy.DefaultLockDays = 7
	}
	if policy.MaxLockDays < policy.DefaultLockDays {
		policy.MaxLockDays = policy.DefaultLockDays
	}
	return &InnoLink{
		Driver:        d,
		Evaluator:     evaluator,
		Registration:  policy,
		UUIDGenerator: func() string { return uuid.New().String() },
		Clock:         func() time.Time { return time.Now().UTC() },
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        logger.With().Str("component", "innolink").Logger(),
	}
}

func (s *InnoLink) BuildIndices(ctx context.Context) error {
	return s.Driver.BuildIndices(ctx)
}

// CheckIdea compares a submission against the most recent corpus items.
func (s *InnoLink) CheckIdea(ctx context.Context, sub model.IdeaSubmission) (model.NoveltyVerdict, error) {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Concept = strings.TrimSpace(sub.Concept)
	if err := s.validateStruct(sub); err != nil {
		return model.NoveltyVerdict{}, err
	}

	if s.Evaluator == nil {
		return model.NoveltyVerdict{}, fmt.Errorf("no novelty evaluator configured")
	}

	corpus, err := s.RecentCorpus(ctx, s.Evaluator.CorpusLimit())
	if err != nil {
		return model.NoveltyVerdict{}, err
	}

	verdict, err := s.Evaluator.Evaluate(ctx, sub.Text(), corpus)
	if err != nil {
		return model.NoveltyVerdict{}, err
	}

	s.logger.Info().
		Str("classification", string(verdict.Classification)).
		Int("score", verdict.NoveltyScore).
		Bool("fallback", verdict.Fallback).
		Int("corpus_size", len(corpus)).
		Msg("idea checked")
	return verdict, nil
}

func (s *InnoLink) AddCorpusItem(ctx context.Context, item model.CorpusItem) (model.CorpusItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	item.Summary = strings.TrimSpace(item.Summary)
	item.Author = strings.TrimSpace(item.Author)
	if err := s.validateStruct(item); err != nil {
		return model.CorpusItem{}, err
	}
	if item.ID == "" {
		item.ID = s.UUIDGenerator()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.Clock()
	}
	item.CreatedAt = item.CreatedAt.UTC()

	params := map[string]interface{}{
		"id":         item.ID,
		"kind":       string(item.Kind),
		"title":      item.Title,
		"summary":    item.Summary,
		"author":     item.Author,
		"category":   item.Category,
		"created_at": item.CreatedAt.UnixMilli(),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveCorpusItemQuery, params); err != nil {
		return model.CorpusItem{}, fmt.Errorf("failed to save corpus item: %w", err)
	}
	return item, nil
}

// RecentCorpus returns up to limit items, newest first.
func (s *InnoLink) RecentCorpus(ctx context.Context, limit int) ([]model.CorpusItem, error) {
	if limit <= 0 {
		limit = defaultCorpusLimit
		if s.Evaluator != nil {
			limit = s.Evaluator.CorpusLimit()
		}
	}

	res, err := s.Driver.ExecuteQuery(ctx, driver.RecentCorpusQuery, map[string]interface{}{"limit": int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	items := make([]model.CorpusItem, 0, len(res.Records))
	for _, rec := range res.Records {
		item, err := corpusItemFromRecord(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// RegisterIdea locks an idea for its author. Without a prior verdict the idea
// is checked first so the stored similarity score is always present. A
// supplied verdict only contributes its score: the score is clamped and the
// classification re-derived from the configured thresholds. Collaborate
// verdicts cannot be registered.
func (s *InnoLink) RegisterIdea(ctx context.Context, req model.RegistrationRequest) (model.IdeaRegistration, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Concept = strings.TrimSpace(req.Concept)
	if err := s.validateStruct(req); err != nil {
		return model.IdeaRegistration{}, err
	}

	lockDays := req.LockDays
	if lockDays == 0 {
		lockDays = s.Registration.DefaultLockDays
	}
	if lockDays > s.Registration.MaxLockDays {
		return model.IdeaRegistration{}, fmt.Errorf("%w: lockDays must be at most %d", ErrValidation, s.Registration.MaxLockDays)
	}

	verdict := req.Verdict
	if verdict == nil {
		v, err := s.CheckIdea(ctx, model.IdeaSubmission{Title: req.Title, Concept: req.Concept})
		if err != nil {
			return model.IdeaRegistration{}, fmt.Errorf("failed to check idea before registering: %w", err)
		}
		verdict = &v
	}

	score, clamped := novelty.ClampScore(verdict.NoveltyScore)
	if clamped {
		s.logger.Warn().Int("supplied_score", verdict.NoveltyScore).Int("score", score).Msg("registration score out of range, clamped")
	}
	classification := novelty.Classify(score, s.thresholds())
	if verdict.Classification != classification {
		s.logger.Debug().
			Str("supplied", string(verdict.Classification)).
			Str("classification", string(classification)).
			Int("score", score).
			Msg("registration classification re-derived from score")
	}
	if classification == model.ClassificationCollaborate {
		return model.IdeaRegistration{}, fmt.Errorf("%w: similarity score %d", ErrCollaborationRequired, score)
	}

	now := s.Clock().UTC()
	reg := model.IdeaRegistration{
		ID:              s.UUIDGenerator(),
		Title:           req.Title,
		Concept:         req.Concept,
		AuthorID:        req.AuthorID,
		AuthorName:      req.AuthorName,
		SimilarityScore: score,
		Classification:  classification,
		LockDays:        lockDays,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(lockDays) * 24 * time.Hour),
		Status:          model.RegistrationLocked,
	}

	params := map[string]interface{}{
		"id":               reg.ID,
		"title":            reg.Title,
		"concept":          reg.Concept,
		"author_id":        reg.AuthorID,
		"author_name":      reg.AuthorName,
		"similarity_score": int64(reg.SimilarityScore),
		"classification":   string(reg.Classification),
		"lock_days":        int64(reg.LockDays),
		"created_at":       reg.CreatedAt.UnixMilli(),
		"expires_at":       reg.ExpiresAt.UnixMilli(),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveRegistrationQuery, params); err != nil {
		return model.IdeaRegistration{}, fmt.Errorf("failed to save registration: %w", err)
	}

	s.logger.Info().
		Str("registration_id", reg.ID).
		Str("author_id", reg.AuthorID).
		Int("lock_days", reg.LockDays).
		Msg("idea registered")
	return reg, nil
}

func (s *InnoLink) GetRegistration(ctx context.Context, id string) (model.IdeaRegistration, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.IdeaRegistration{}, fmt.Errorf("%w: id is required", ErrValidation)
	}

	res, err := s.Driver.ExecuteQuery(ctx, driver.GetRegistrationQuery, map[string]interface{}{"id": id})
	if err != nil {
		return model.IdeaRegistration{}, fmt.Errorf("failed to load registration: %w", err)
	}
	if len(res.Records) == 0 {
		return model.IdeaRegistration{}, fmt.Errorf("registration %s: %w", id, ErrNotFound)
	}

	reg, err := registrationFromRecord(res.Records[0])
	if err != nil {
		return model.IdeaRegistration{}, err
	}
	reg.Status = reg.StatusAt(s.Clock())
	return reg, nil
}

// ListRegistrations returns an author's registrations, newest first.
func (s *InnoLink) ListRegistrations(ctx context.Context, authorID string) ([]model.IdeaRegistration, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, fmt.Errorf("%w: author_id is required", ErrValidation)
	}

	res, err := s.Driver.ExecuteQuery(ctx, driver.ListRegistrationsByAuthorQuery, map[string]interface{}{"author_id": authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	now := s.Clock()
	regs := make([]model.IdeaRegistration, 0, len(res.Records))
	for _, rec := range res.Records {
		reg, err := registrationFromRecord(rec)
		if err != nil {
			return nil, err
		}
		reg.Status = reg.StatusAt(now)
		regs = append(regs, reg)
	}
	return regs, nil
}

func (s *InnoLink) thresholds() novelty.Thresholds {
	if s.Evaluator == nil {
		return novelty.DefaultThresholds()
	}
	return s.Evaluator.Thresholds()
}

func (s *InnoLink) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func corpusItemFromRecord(rec *neo4j.Record) (model.CorpusItem, error) {
	var (
		item model.CorpusItem
		kind string
		ms   int64
		errs []error
	)
	item.ID = recordString(rec, "id", &errs)
	kind = recordString(rec, "kind", &errs)
	item.Title = recordString(rec, "title", &errs)
	item.Summary = recordString(rec, "summary", &errs)
	item.Author = recordString(rec, "author", &errs)
	item.Category = recordString(rec, "category", &errs)
	ms = recordInt(rec, "created_at", &errs)
	if err := errors.Join(errs...); err != nil {
		return model.CorpusItem{}, fmt.Errorf("failed to decode corpus item: %w", err)
	}
	item.Kind = model.CorpusKind(kind)
	item.CreatedAt = time.UnixMilli(ms).UTC()
	return item, nil
}

func registrationFromRecord(rec *neo4j.Record) (model.IdeaRegistration, error) {
	var (
		reg  model.IdeaRegistration
		errs []error
	)
	reg.ID = recordString(rec, "id", &errs)
	reg.Title = recordString(rec, "title", &errs)
	reg.Concept = recordString(rec, "concept", &errs)
	reg.AuthorID = recordString(rec, "author_id", &errs)
	reg.AuthorName = recordString(rec, "author_name", &errs)
	reg.SimilarityScore = int(recordInt(rec, "similarity_score", &errs))
	reg.Classification = model.Classification(recordString(rec, "classification", &errs))
	reg.LockDays = int(recordInt(rec, "lock_days", &errs))
	reg.CreatedAt = time.UnixMilli(recordInt(rec, "created_at", &errs)).UTC()
	reg.ExpiresAt = time.UnixMilli(recordInt(rec, "expires_at", &errs)).UTC()
	if err := errors.Join(errs...); err != nil {
		return model.IdeaRegistration{}, fmt.Errorf("failed to decode registration: %w", err)
	}
	return reg, nil
}

// recordString treats a null property as empty.
func recordString(rec *neo4j.Record, key string, errs *[]error) string {
	v, _, err := neo4j.GetRecordValue[string](rec, key)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

func recordInt(rec *neo4j.Record, key string, errs *[]error) int64 {
	v, _, err := neo4j.GetRecordValue[int64](rec, key)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

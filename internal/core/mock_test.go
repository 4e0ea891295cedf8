package core

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rajarajendra1103/InnoLink/internal/core/novelty"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver answers each query constant with a canned result.
type MockDriver struct {
	mu       sync.Mutex
	Executed []executedQuery
	Results  map[string]neo4j.EagerResult
	Errs     map[string]error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if err, ok := m.Errs[query]; ok {
		return neo4j.EagerResult{}, err
	}
	return m.Results[query], nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func (m *MockDriver) last(query string) (executedQuery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Executed) - 1; i >= 0; i-- {
		if m.Executed[i].Query == query {
			return m.Executed[i], true
		}
	}
	return executedQuery{}, false
}

type MockEvaluator struct {
	Verdict    model.NoveltyVerdict
	Bands      novelty.Thresholds
	Err        error
	Limit      int
	Calls      int
	LastText   string
	LastCorpus []model.CorpusItem
}

func (m *MockEvaluator) Evaluate(ctx context.Context, ideaText string, corpus []model.CorpusItem) (model.NoveltyVerdict, error) {
	m.Calls++
	m.LastText = ideaText
	m.LastCorpus = corpus
	if m.Err != nil {
		return model.NoveltyVerdict{}, m.Err
	}
	return m.Verdict, nil
}

func (m *MockEvaluator) Thresholds() novelty.Thresholds {
	if m.Bands == (novelty.Thresholds{}) {
		return novelty.DefaultThresholds()
	}
	return m.Bands
}

func (m *MockEvaluator) CorpusLimit() int {
	if m.Limit == 0 {
		return 15
	}
	return m.Limit
}

func corpusRecord(id, kind, title, summary, author string, category interface{}, createdMS int64) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"id", "kind", "title", "summary", "author", "category", "created_at"},
		Values: []interface{}{id, kind, title, summary, author, category, createdMS},
	}
}

func registrationRecord(reg model.IdeaRegistration) *neo4j.Record {
	return &neo4j.Record{
		Keys: []string{"id", "title", "concept", "author_id", "author_name", "similarity_score",
			"classification", "lock_days", "created_at", "expires_at"},
		Values: []interface{}{reg.ID, reg.Title, reg.Concept, reg.AuthorID, reg.AuthorName,
			int64(reg.SimilarityScore), string(reg.Classification), int64(reg.LockDays),
			reg.CreatedAt.UnixMilli(), reg.ExpiresAt.UnixMilli()},
	}
}

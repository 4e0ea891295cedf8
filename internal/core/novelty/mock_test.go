package novelty

import (
	"context"
	"sync"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
)

type MockLLMClient struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

type MockOracle struct {
	Response   RawOracleResponse
	Err        error
	Block      bool
	Calls      int
	LastCorpus []model.CorpusItem
}

func (m *MockOracle) Score(ctx context.Context, ideaText string, corpus []model.CorpusItem) (RawOracleResponse, error) {
	m.Calls++
	m.LastCorpus = corpus
	if m.Block {
		<-ctx.Done()
		return RawOracleResponse{}, ctx.Err()
	}
	if m.Err != nil {
		return RawOracleResponse{}, m.Err
	}
	return m.Response, nil
}

type MockLimiter struct {
	Allowed bool
	Err     error
	Calls   int
}

func (m *MockLimiter) Allow(ctx context.Context) (bool, error) {
	m.Calls++
	return m.Allowed, m.Err
}

func sampleCorpus() []model.CorpusItem {
	return []model.CorpusItem{
		{ID: "p1", Kind: model.KindProblem, Title: "Excessive Plastic Waste in Urban Waterways", Summary: "Plastic waste accumulates in city rivers faster than barriers can catch it.", Author: "Sarah Jenkins", Category: "Environment"},
		{ID: "p2", Kind: model.KindProblem, Title: "Patient Queue Management in Emergency", Summary: "ER wait times spike to four hours at peak.", Author: "City Hospital", Category: "Health"},
		{ID: "s1", Kind: model.KindSolution, Title: "Solar River Skimmer", Summary: "A solar-powered barge that skims floating plastic from rivers.", Author: "Arjun Mehta", Category: "Environment"},
	}
}

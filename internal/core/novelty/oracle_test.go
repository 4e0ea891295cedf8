package novelty

import (
	"context"
	"errors"
	"testing"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMOracleBuildsPromptFromCorpus(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"summary": "s", "score": 10, "recommendation": "Publish", "matchedItem": null}`}
	oracle := NewLLMOracle(mockLLM, "mock", "", Thresholds{Improve: 35, Collaborate: 75})

	_, err := oracle.Score(context.Background(), "Smart Bin: a bin that sorts recycling", sampleCorpus())
	require.NoError(t, err)

	require.Len(t, mockLLM.Prompts, 1)
	prompt := mockLLM.Prompts[0]
	assert.Contains(t, prompt, "Smart Bin: a bin that sorts recycling")
	assert.Contains(t, prompt, `"id": "p1"`)
	assert.Contains(t, prompt, `"title": "Solar River Skimmer"`)
	assert.Contains(t, prompt, "below 35")
	assert.Contains(t, prompt, "75 or more")
}

func TestLLMOracleCustomPromptTemplate(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"summary": "s", "score": 10}`}
	oracle := NewLLMOracle(mockLLM, "mock", "idea=%[1]s bands=%[3]d/%[4]d", DefaultThresholds())

	_, err := oracle.Score(context.Background(), "drone delivery", nil)
	require.NoError(t, err)
	assert.Equal(t, "idea=drone delivery bands=40/70", mockLLM.Prompts[0])
}

func TestParseOracleResponse(t *testing.T) {
	raw, err := parseOracleResponse("```json\n{\"summary\": \"A pothole mapper.\", \"score\": 72, \"recommendation\": \"Collaborate\", \"matchedItem\": {\"id\": \"p10\", \"title\": \"Pothole Detection System\", \"author\": \"SafeStreets\"}}\n```")
	require.NoError(t, err)

	assert.Equal(t, "A pothole mapper.", raw.Summary)
	assert.Equal(t, 72.0, raw.Score)
	assert.Equal(t, "Collaborate", raw.Recommendation)
	require.NotNil(t, raw.MatchedItem)
	assert.Equal(t, "p10", raw.MatchedItem.ID)
}

func TestParseOracleResponseRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose only", "I think this idea is quite original."},
		{"truncated", `{"summary": "A pothole mapper.", "score": `},
		{"missing score", `{"summary": "A pothole mapper.", "recommendation": "Publish"}`},
		{"missing summary", `{"score": 20}`},
		{"empty summary", `{"summary": "", "score": 20}`},
		{"score as text", `{"summary": "s", "score": "seventy"}`},
		{"score as numeric string", `{"summary": "s", "score": "70"}`},
		{"match wrong shape", `{"summary": "s", "score": 70, "matchedItem": "p1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOracleResponse(tt.response)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestEvaluateThroughLLMOracleFallsBackOnMalformedPayload(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "Sorry, I can't produce JSON today."}
	e := newTestEvaluator(t, NewLLMOracle(mockLLM, "mock", "", DefaultThresholds()), Options{})

	v, err := e.Evaluate(context.Background(), "some idea text", sampleCorpus())
	require.NoError(t, err)
	assert.True(t, v.Fallback)
	assert.Equal(t, model.ClassificationPublish, v.Classification)
}

func TestEvaluateThroughLLMOracleFallsBackOnProviderError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("429 resource exhausted")}
	e := newTestEvaluator(t, NewLLMOracle(mockLLM, "mock", "", DefaultThresholds()), Options{})

	v, err := e.Evaluate(context.Background(), "some idea text", sampleCorpus())
	require.NoError(t, err)
	assert.Equal(t, FallbackVerdict(), v)
}

func TestEvaluateNearDuplicateIsCollaborate(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{
		"summary": "A solar-powered barge that skims floating plastic off rivers.",
		"score": 93,
		"recommendation": "Collaborate",
		"matchedItem": {"id": "s1", "title": "Solar River Skimmer", "author": "Arjun Mehta"}
	}`}
	th := DefaultThresholds()
	e := newTestEvaluator(t, NewLLMOracle(mockLLM, "mock", "", th), Options{Thresholds: th})

	v, err := e.Evaluate(context.Background(), "Solar River Skimmer: a solar-powered barge that skims floating plastic from rivers", sampleCorpus())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, v.NoveltyScore, th.Collaborate)
	assert.Equal(t, model.ClassificationCollaborate, v.Classification)
	require.NotNil(t, v.MatchedItem)
	assert.Equal(t, "s1", v.MatchedItem.ID)
}

func TestEvaluateRepeatedCallsStayStructurallyValid(t *testing.T) {
	// Scores differ between calls; only the invariants are stable.
	mockLLM := &MockLLMClient{ResponseQueue: []string{
		`{"summary": "s", "score": 38, "matchedItem": {"id": "p1"}}`,
		`{"summary": "s", "score": 41, "matchedItem": {"id": "p1"}}`,
		`{"summary": "s", "score": 77, "matchedItem": {"id": "p1"}}`,
		`{"summary": "s", "score": 140, "matchedItem": {"id": "ghost"}}`,
	}}
	th := DefaultThresholds()
	e, err := NewEvaluator(NewLLMOracle(mockLLM, "mock", "", th), Options{Thresholds: th, Logger: zerolog.Nop()})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		v, err := e.Evaluate(context.Background(), "River plastic skimmer", sampleCorpus())
		require.NoError(t, err)
		assertStructurallyValid(t, v, th)
	}
}

func TestValidatePromptTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantErr  bool
	}{
		{"empty selects default", "", false},
		{"default", DefaultPromptTemplate, false},
		{"positional subset", "idea=%[1]s bands=%[3]d/%[4]d", false},
		{"sequential verbs", "%s\n%s\n%d %d", false},
		{"no verbs", "Compare the idea with the corpus.", true},
		{"wrong type", "%[1]d", true},
		{"stray percent", "score at 100% overlap: %[1]s %[2]s", true},
		{"missing argument", "%[5]s", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePromptTemplate(tt.template)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPromptTemplate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluateBadTemplateFallsBackWithoutCallingLLM(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"summary": "s", "score": 90}`}
	oracle := NewLLMOracle(mockLLM, "mock", "Compare the idea with the corpus.", DefaultThresholds())

	_, err := oracle.Score(context.Background(), "drone delivery", nil)
	require.ErrorIs(t, err, ErrPromptTemplate)
	assert.Equal(t, reasonPrompt, failureReason(err))

	e := newTestEvaluator(t, oracle, Options{})
	v, err := e.Evaluate(context.Background(), "drone delivery", sampleCorpus())
	require.NoError(t, err)
	assert.True(t, v.Fallback)
	assert.Empty(t, mockLLM.Prompts)
}

func TestParseOracleResponseKeepsBackticksInSummary(t *testing.T) {
	raw, err := parseOracleResponse("```json\n{\"summary\": \"Wraps `curl` calls in a ```retry``` helper.\", \"score\": 5}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Wraps `curl` calls in a ```retry``` helper.", raw.Summary)
}

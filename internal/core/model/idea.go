package model

import (
	"strings"
	"time"
)

// Classification is the workflow branch a novelty verdict drives.
type Classification string

const (
	ClassificationPublish     Classification = "Publish"
	ClassificationImprove     Classification = "Improve"
	ClassificationCollaborate Classification = "Collaborate"
)

// IdeaSubmission is the free-text idea a user asks to check. It is not stored by the check itself.
type IdeaSubmission struct {
	Title   string `json:"title" validate:"omitempty,min=3,max=200"`
	Concept string `json:"concept" validate:"required,min=10,max=5000"`
}

// Text is what gets compared against the corpus: "title: concept", or the concept alone.
func (s IdeaSubmission) Text() string {
	title := strings.TrimSpace(s.Title)
	concept := strings.TrimSpace(s.Concept)
	if title == "" {
		return concept
	}
	return title + ": " + concept
}

type CorpusKind string

const (
	KindProblem  CorpusKind = "Problem"
	KindSolution CorpusKind = "Solution"
	KindIdea     CorpusKind = "Idea"
)

// CorpusItem is a read-only snapshot of an existing problem, solution or idea.
type CorpusItem struct {
	ID        string     `json:"id"`
	Kind      CorpusKind `json:"type" validate:"required,oneof=Problem Solution Idea"`
	Title     string     `json:"title" validate:"required,min=3,max=200"`
	Summary   string     `json:"summary" validate:"required"`
	Author    string     `json:"author" validate:"required"`
	Category  string     `json:"category,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type MatchedItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// NoveltyVerdict is the outcome of one evaluation. MatchedItem is nil for every
// Publish verdict. Fallback marks verdicts substituted because the oracle could
// not be consulted; a Publish verdict is therefore not a novelty guarantee.
type NoveltyVerdict struct {
	Summary        string         `json:"summary"`
	NoveltyScore   int            `json:"noveltyScore"`
	Classification Classification `json:"classification"`
	MatchedItem    *MatchedItem   `json:"matchedItem"`
	Fallback       bool           `json:"fallback"`
}

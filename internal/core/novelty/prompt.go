package novelty

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rajarajendra1103/InnoLink/internal/core/common"
	"github.com/rajarajendra1103/InnoLink/internal/core/model"
)

// ErrPromptTemplate marks a novelty prompt template fmt cannot render with
// (idea string, corpus string, improve int, collaborate int).
var ErrPromptTemplate = errors.New("invalid novelty prompt template")

// maxSummaryRunes keeps long problem write-ups from dominating the request.
const maxSummaryRunes = 400

// DefaultPromptTemplate takes, in order: idea text, corpus JSON,
// improve threshold, collaborate threshold.
const DefaultPromptTemplate = `You are the validation engine of InnoLink, a platform that connects problem posters, idea makers and investors.
Compare the submitted idea with the existing items and report how far it overlaps with them.

<IDEA>
%[1]s
</IDEA>

<EXISTING ITEMS>
%[2]s
</EXISTING ITEMS>

Instructions:
1. Write a concise, professional one-sentence summary of the submitted idea.
2. Estimate the semantic overlap with the closest existing item as an integer score from 0 (entirely new) to 100 (exact duplicate).
3. Name the single best-matching existing item using its id, or null when nothing overlaps meaningfully.
4. Recommend "Publish" when the score is below %[3]d, "Improve" when it is at least %[3]d and below %[4]d, and "Collaborate" when it is %[4]d or more.

Return ONLY a JSON object, no markdown:
{
  "summary": "string",
  "score": 0,
  "recommendation": "Publish" | "Improve" | "Collaborate",
  "matchedItem": {"id": "string", "title": "string", "author": "string"} or null
}`

type promptItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
}

// BuildPrompt renders the oracle instruction. An empty template selects DefaultPromptTemplate.
func BuildPrompt(template string, ideaText string, corpus []model.CorpusItem, t Thresholds) (string, error) {
	if template == "" {
		template = DefaultPromptTemplate
	}
	if err := ValidatePromptTemplate(template); err != nil {
		return "", err
	}

	items := make([]promptItem, 0, len(corpus))
	for _, c := range corpus {
		items = append(items, promptItem{
			ID:       c.ID,
			Type:     string(c.Kind),
			Title:    c.Title,
			Summary:  common.Truncate(c.Summary, maxSummaryRunes),
			Author:   c.Author,
			Category: c.Category,
		})
	}

	corpusJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize corpus: %w", err)
	}

	return fmt.Sprintf(template, ideaText, string(corpusJSON), t.Improve, t.Collaborate), nil
}

// ValidatePromptTemplate renders template with placeholder arguments and
// rejects it when fmt reports a bad verb, a wrong type or unused arguments.
// An empty template is valid and selects DefaultPromptTemplate.
func ValidatePromptTemplate(template string) error {
	if template == "" {
		return nil
	}
	out := fmt.Sprintf(template, "idea", "[]", 0, 0)
	if i := strings.Index(out, "%!"); i != -1 {
		return fmt.Errorf("%w: %s", ErrPromptTemplate, common.Truncate(out[i:], 40))
	}
	return nil
}

package model

import "time"

const (
	RegistrationLocked  = "locked"
	RegistrationExpired = "expired"
)

// RegistrationRequest locks an idea for its author for LockDays days.
// Verdict is optional; without it the idea is checked before it is stored.
type RegistrationRequest struct {
	Title      string          `json:"title" validate:"required,min=3,max=200"`
	Concept    string          `json:"concept" validate:"required,min=10,max=5000"`
	AuthorID   string          `json:"authorId" validate:"required"`
	AuthorName string          `json:"authorName" validate:"required"`
	LockDays   int             `json:"lockDays" validate:"gte=0"`
	Verdict    *NoveltyVerdict `json:"verdict,omitempty"`
}

type IdeaRegistration struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Concept         string         `json:"concept"`
	AuthorID        string         `json:"authorId"`
	AuthorName      string         `json:"authorName"`
	SimilarityScore int            `json:"similarityScore"`
	Classification  Classification `json:"classification"`
	LockDays        int            `json:"lockDays"`
	CreatedAt       time.Time      `json:"createdAt"`
	ExpiresAt       time.Time      `json:"expiresAt"`
	Status          string         `json:"status"`
}

// StatusAt reports "expired" once the lock window has passed.
func (r IdeaRegistration) StatusAt(now time.Time) string {
	if !now.Before(r.ExpiresAt) {
		return RegistrationExpired
	}
	return RegistrationLocked
}

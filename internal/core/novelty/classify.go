package novelty

import (
	"fmt"
	"math"
	"strings"

	"github.com/rajarajendra1103/InnoLink/internal/core/model"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Thresholds split [0,100] into three bands:
// [0, Improve) Publish, [Improve, Collaborate) Improve, [Collaborate, 100] Collaborate.
type Thresholds struct {
	Improve     int
	Collaborate int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Improve: 40, Collaborate: 70}
}

func (t Thresholds) Validate() error {
	if t.Improve < MinScore || t.Collaborate > MaxScore || t.Improve >= t.Collaborate {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= improve < collaborate <= 100, got %d/%d",
			ErrInvalidInput, t.Improve, t.Collaborate)
	}
	return nil
}

// Classify maps a score onto the decision lattice. It is the only place a
// classification is decided; the oracle's own label is never used directly.
func Classify(score int, t Thresholds) model.Classification {
	switch {
	case score >= t.Collaborate:
		return model.ClassificationCollaborate
	case score >= t.Improve:
		return model.ClassificationImprove
	default:
		return model.ClassificationPublish
	}
}

// ClampScore pulls score into [0,100] and reports whether it had to.
func ClampScore(score int) (int, bool) {
	switch {
	case score < MinScore:
		return MinScore, true
	case score > MaxScore:
		return MaxScore, true
	default:
		return score, false
	}
}

// normalizeScore rounds an oracle score to an integer in [0,100]. Clamping
// happens before the integer conversion so huge values cannot overflow.
func normalizeScore(raw float64) (int, bool) {
	r := math.Round(raw)
	switch {
	case r < MinScore:
		return MinScore, true
	case r > MaxScore:
		return MaxScore, true
	default:
		return int(r), false
	}
}

// ParseRecommendation normalises the oracle's advisory label.
// "Improve uniqueness" is the wording older prompts asked for.
func ParseRecommendation(label string) (model.Classification, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "publish", "new":
		return model.ClassificationPublish, true
	case "improve", "improve uniqueness", "similar":
		return model.ClassificationImprove, true
	case "collaborate", "duplicate":
		return model.ClassificationCollaborate, true
	default:
		return "", false
	}
}

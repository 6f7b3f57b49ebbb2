package quiz

import (
	"strconv"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

const (
	// DefaultPassScore and DefaultMaxDurationS encode the readiness rule:
	// at least 8 of 10 correct within 180 seconds.
	DefaultPassScore    = 8
	DefaultMaxDurationS = 180
)

// Answer is one submitted response. Value is decoded loosely; anything that
// does not normalize to the item's stored answer counts as incorrect.
type Answer struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// Rule is the pass rule a score is judged against.
type Rule struct {
	PassScore    int
	MaxDurationS int
}

// DefaultRule returns the fixed MATH101/readiness rule.
func DefaultRule() Rule {
	return Rule{PassScore: DefaultPassScore, MaxDurationS: DefaultMaxDurationS}
}

// Result is the outcome of scoring one submission.
type Result struct {
	ScoreRaw  int  `json:"score_raw"`
	ScoreMax  int  `json:"score_max"`
	DurationS int  `json:"duration_s"`
	Passed    bool `json:"passed"`
}

// Score grades a submission against the quiz items. Items without a matching
// answer, and answers that fail to normalize, count as incorrect rather than
// erroring. Timestamps are caller-supplied wall-clock values; duration is the
// whole-second floor of their difference, even when it is negative.
func Score(items []models.QuizItem, answers []Answer, startedAt, submittedAt time.Time, rule Rule) Result {
	elapsed := submittedAt.Sub(startedAt)
	durationS := int(elapsed / time.Second)
	if elapsed%time.Second < 0 {
		durationS--
	}

	byID := make(map[string]string, len(answers))
	for _, a := range answers {
		if v, ok := normalizeValue(a.Value); ok {
			byID[a.ID] = v
		}
	}

	scoreRaw := 0
	for _, item := range items {
		if v, ok := byID[item.QuizItemID]; ok && v == item.CorrectAnswer {
			scoreRaw++
		}
	}

	return Result{
		ScoreRaw:  scoreRaw,
		ScoreMax:  len(items),
		DurationS: durationS,
		Passed:    scoreRaw >= rule.PassScore && durationS <= rule.MaxDurationS,
	}
}

// normalizeValue flattens a decoded JSON answer value to the string encoding
// quiz items store their answer key in.
func normalizeValue(v any) (string, bool) {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val), true
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

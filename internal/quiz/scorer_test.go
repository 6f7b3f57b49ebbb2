package quiz

import (
	"testing"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func boolItems(keys ...bool) []models.QuizItem {
	items := make([]models.QuizItem, len(keys))
	for i, k := range keys {
		items[i] = models.QuizItem{
			QuizItemID:    itemID(i),
			Stem:          "stem",
			AnswerFormat:  models.AnswerBoolean,
			CorrectAnswer: formatBool(k),
		}
	}
	return items
}

func itemID(i int) string {
	return "item-" + string(rune('a'+i))
}

func answersMatching(items []models.QuizItem, correct int) []Answer {
	answers := make([]Answer, 0, len(items))
	for i, item := range items {
		value := item.CorrectAnswer == "true"
		if i >= correct {
			value = !value
		}
		answers = append(answers, Answer{ID: item.QuizItemID, Value: value})
	}
	return answers
}

func TestScore_PassBoundaries(t *testing.T) {
	items := boolItems(true, false, true, false, true, false, true, false, true, false)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		correct   int
		durationS int
		passed    bool
	}{
		{"8 correct at 180s passes", 8, 180, true},
		{"7 correct at 180s fails", 7, 180, false},
		{"8 correct at 181s fails", 8, 181, false},
		{"10 correct at 1s passes", 10, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitted := started.Add(time.Duration(tt.durationS) * time.Second)
			result := Score(items, answersMatching(items, tt.correct), started, submitted, DefaultRule())

			assert.Equal(t, tt.correct, result.ScoreRaw)
			assert.Equal(t, 10, result.ScoreMax)
			assert.Equal(t, tt.durationS, result.DurationS)
			assert.Equal(t, tt.passed, result.Passed)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	items := boolItems(true, true, false)
	answers := answersMatching(items, 2)
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	submitted := started.Add(90 * time.Second)

	first := Score(items, answers, started, submitted, DefaultRule())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(items, answers, started, submitted, DefaultRule()))
	}
}

func TestScore_MissingAndMalformedAnswers(t *testing.T) {
	items := boolItems(true, false, true)
	started := time.Now()
	submitted := started.Add(30 * time.Second)

	// Only the first item answered; second malformed; third missing.
	answers := []Answer{
		{ID: items[0].QuizItemID, Value: true},
		{ID: items[1].QuizItemID, Value: []any{"not", "a", "scalar"}},
	}

	result := Score(items, answers, started, submitted, DefaultRule())
	assert.Equal(t, 1, result.ScoreRaw)
	assert.Equal(t, 3, result.ScoreMax)
	assert.False(t, result.Passed)
}

func TestScore_UnknownAnswerIDsIgnored(t *testing.T) {
	items := boolItems(true)
	answers := []Answer{
		{ID: "no-such-item", Value: true},
		{ID: items[0].QuizItemID, Value: true},
	}
	started := time.Now()

	result := Score(items, answers, started, started.Add(time.Second), DefaultRule())
	assert.Equal(t, 1, result.ScoreRaw)
	assert.Equal(t, 1, result.ScoreMax)
}

func TestScore_DurationFloorsSubSecond(t *testing.T) {
	items := boolItems(true)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	submitted := started.Add(1999 * time.Millisecond)

	result := Score(items, nil, started, submitted, DefaultRule())
	assert.Equal(t, 1, result.DurationS)
}

func TestScore_NegativeDurationFloorsTowardMinusInfinity(t *testing.T) {
	items := boolItems(true)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// submitted_at before started_at: floor, not truncation toward zero.
	result := Score(items, nil, started, started.Add(-500*time.Millisecond), DefaultRule())
	assert.Equal(t, -1, result.DurationS)
	assert.False(t, result.Passed)

	result = Score(items, nil, started, started.Add(-2*time.Second), DefaultRule())
	assert.Equal(t, -2, result.DurationS)
}

func TestScore_CustomRule(t *testing.T) {
	items := boolItems(true, false)
	answers := answersMatching(items, 2)
	started := time.Now()

	rule := Rule{PassScore: 2, MaxDurationS: 60}
	result := Score(items, answers, started, started.Add(59*time.Second), rule)
	assert.True(t, result.Passed)

	result = Score(items, answers, started, started.Add(61*time.Second), rule)
	assert.False(t, result.Passed)
}

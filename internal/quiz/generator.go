package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

const (
	// ItemCount is the fixed size of a readiness quiz.
	ItemCount = 10

	// NumberDomainMax bounds the numeric domain (1..NumberDomainMax) items
	// are drawn from.
	NumberDomainMax = 30

	// TTL is how long an issued quiz stays valid. Advisory only; the scorer
	// does not enforce it.
	TTL = 15 * time.Minute
)

// Generate builds a fresh readiness quiz: ItemCount distinct integers drawn
// uniformly from 1..NumberDomainMax, one boolean parity question each. Pure
// construction; persistence is the caller's concern.
func Generate(courseID, moduleID string, now time.Time) *models.Quiz {
	q := &models.Quiz{
		QuizID:    uuid.NewString(),
		CourseID:  courseID,
		ModuleID:  moduleID,
		IssuedAt:  now,
		ExpiresAt: now.Add(TTL),
		Items:     make([]models.QuizItem, 0, ItemCount),
	}

	for _, n := range rand.Perm(NumberDomainMax)[:ItemCount] {
		num := n + 1
		q.Items = append(q.Items, models.QuizItem{
			QuizItemID:    uuid.NewString(),
			QuizID:        q.QuizID,
			Stem:          fmt.Sprintf("Is %d a multiple of 2?", num),
			AnswerFormat:  models.AnswerBoolean,
			CorrectAnswer: formatBool(num%2 == 0),
		})
	}

	return q
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

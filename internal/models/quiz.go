package models

import "time"

type AnswerFormat string

const (
	AnswerBoolean        AnswerFormat = "boolean"
	AnswerMultipleChoice AnswerFormat = "multiple_choice"
)

// Quiz is an issued readiness quiz. Immutable once created; attempts
// reference it by id. ExpiresAt is advisory metadata and is not enforced by
// the scorer.
type Quiz struct {
	QuizID    string    `json:"quiz_id" gorm:"primaryKey;size:36"`
	CourseID  string    `json:"course_id" gorm:"not null;size:64;index"`
	ModuleID  string    `json:"module_id" gorm:"not null;size:64"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	Items []QuizItem `json:"items" gorm:"foreignKey:QuizID;references:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizItem is a single question of an issued quiz. CorrectAnswer is stored as
// its JSON encoding ("true"/"false" for boolean items) and must never be
// serialized to learners.
type QuizItem struct {
	QuizItemID    string       `json:"id" gorm:"primaryKey;size:36"`
	QuizID        string       `json:"quiz_id" gorm:"not null;size:36;index"`
	Stem          string       `json:"stem" gorm:"not null;type:text"`
	AnswerFormat  AnswerFormat `json:"answer_format" gorm:"not null;size:32"`
	CorrectAnswer string       `json:"-" gorm:"not null;size:255"`
}

func (QuizItem) TableName() string {
	return "quiz_items"
}

// PublicItem is the learner-facing projection of a QuizItem with the answer
// key stripped.
type PublicItem struct {
	ID           string       `json:"id"`
	Stem         string       `json:"stem"`
	AnswerFormat AnswerFormat `json:"answer_format"`
}

func (qi QuizItem) Public() PublicItem {
	return PublicItem{
		ID:           qi.QuizItemID,
		Stem:         qi.Stem,
		AnswerFormat: qi.AnswerFormat,
	}
}

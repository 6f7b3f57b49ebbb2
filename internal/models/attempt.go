package models

import "time"

// Attempt records one scored quiz submission. Created exactly once per
// scoring call and immutable thereafter; retried requests are absorbed by the
// idempotency gate, not by this table.
type Attempt struct {
	AttemptID string `json:"attempt_id" gorm:"primaryKey;size:36"`
	Wallet    string `json:"wallet" gorm:"not null;size:64;index"`
	CourseID  string `json:"course_id" gorm:"not null;size:64"`
	ModuleID  string `json:"module_id" gorm:"not null;size:64"`
	QuizID    string `json:"quiz_id" gorm:"not null;size:36;index"`

	ScoreRaw  int  `json:"score_raw" gorm:"not null"`
	ScoreMax  int  `json:"score_max" gorm:"not null"`
	DurationS int  `json:"duration_s" gorm:"not null"`
	Passed    bool `json:"passed" gorm:"not null"`

	RequestID string    `json:"request_id" gorm:"size:36;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Attempt) TableName() string {
	return "attempts"
}

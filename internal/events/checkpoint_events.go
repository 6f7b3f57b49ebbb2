package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of checkpoint events
type EventType string

const (
	EventAttemptScored     EventType = "attempt.scored"
	EventProgressUpdated   EventType = "progress.updated"
	EventBenefitGranted    EventType = "benefit.granted"
	EventAttestationIssued EventType = "attestation.issued"
)

// CheckpointEvent is the base event structure published to the checkpoint
// topic. Data carries the type-specific payload.
type CheckpointEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptScoredEvent struct {
	AttemptID string `json:"attempt_id"`
	Wallet    string `json:"wallet"`
	CourseID  string `json:"course_id"`
	ModuleID  string `json:"module_id"`
	QuizID    string `json:"quiz_id"`
	ScoreRaw  int    `json:"score_raw"`
	ScoreMax  int    `json:"score_max"`
	DurationS int    `json:"duration_s"`
	Passed    bool   `json:"passed"`
}

type ProgressUpdatedEvent struct {
	Wallet          string     `json:"wallet"`
	CourseID        string     `json:"course_id"`
	ModuleID        string     `json:"module_id"`
	Status          string     `json:"status"`
	LatestAttemptID *string    `json:"latest_attempt_id,omitempty"`
	PassedAt        *time.Time `json:"passed_at,omitempty"`
	Version         int        `json:"version"`
}

type BenefitGrantedEvent struct {
	Wallet    string `json:"wallet"`
	BenefitID string `json:"benefit_id"`
	ClaimCode string `json:"claim_code"`
	CourseID  string `json:"course_id"`
	ModuleID  string `json:"module_id"`
}

type AttestationIssuedEvent struct {
	Wallet    string `json:"wallet"`
	CourseID  string `json:"course_id"`
	ModuleID  string `json:"module_id"`
	ScorePct  int    `json:"score_pct"`
	ProofHash string `json:"proof_hash"`
}

// Event factory functions

func NewAttemptScoredEvent(data AttemptScoredEvent) *CheckpointEvent {
	return newEvent(EventAttemptScored, data)
}

func NewProgressUpdatedEvent(data ProgressUpdatedEvent) *CheckpointEvent {
	return newEvent(EventProgressUpdated, data)
}

func NewBenefitGrantedEvent(data BenefitGrantedEvent) *CheckpointEvent {
	return newEvent(EventBenefitGranted, data)
}

func NewAttestationIssuedEvent(data AttestationIssuedEvent) *CheckpointEvent {
	return newEvent(EventAttestationIssued, data)
}

func newEvent(eventType EventType, data interface{}) *CheckpointEvent {
	return &CheckpointEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "checkpoint-service",
		Version:   "1.0",
		Data:      data,
	}
}

package models

import "time"

type ProgressStatus string

const (
	ProgressNotStarted     ProgressStatus = "NOT_STARTED"
	ProgressInProgress     ProgressStatus = "IN_PROGRESS"
	ProgressReady          ProgressStatus = "READY"
	ProgressBenefitClaimed ProgressStatus = "BENEFIT_CLAIMED"
)

// Progress tracks a learner's state for one module. At most one row exists
// per (wallet, course_id, module_id); Version increases by one on every
// successful write.
type Progress struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Wallet          string         `json:"wallet" gorm:"not null;size:64;uniqueIndex:idx_progress_wallet_course_module"`
	CourseID        string         `json:"course_id" gorm:"not null;size:64;uniqueIndex:idx_progress_wallet_course_module"`
	ModuleID        string         `json:"module_id" gorm:"not null;size:64;uniqueIndex:idx_progress_wallet_course_module"`
	LatestAttemptID *string        `json:"latest_attempt_id" gorm:"size:36"`
	Status          ProgressStatus `json:"status" gorm:"not null;size:32;default:NOT_STARTED" validate:"omitempty,progress_status"`
	PassedAt        *time.Time     `json:"passed_at"`
	Version         int            `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}

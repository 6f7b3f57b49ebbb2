package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attestation logs every issued checkpoint proof. The on-chain issuance is
// deferred; EasUID stays null until a real credential backend exists.
type Attestation struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Wallet   string `json:"wallet" gorm:"not null;size:64;index"`
	CourseID string `json:"course_id" gorm:"not null;size:64"`
	ModuleID string `json:"module_id" gorm:"not null;size:64"`

	ScorePct  int       `json:"score_pct" gorm:"not null"`
	PassedAt  string    `json:"passed_at" gorm:"not null;size:64"`
	ProofHash string    `json:"proof_hash" gorm:"not null;size:64;index"`
	EasUID    *string   `json:"eas_uid" gorm:"size:66"`
	RequestID *string   `json:"request_id" gorm:"size:36"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Attestation) TableName() string {
	return "attestations"
}

package models

import "time"

// BenefitClaim is a minted one-time claim code. Rows are append-only per
// wallet; whether a wallet may hold more than one claim for the same benefit
// is a policy decision enforced by the benefit service, not the schema.
type BenefitClaim struct {
	ClaimCode string `json:"claim_code" gorm:"primaryKey;size:12"`
	Wallet    string `json:"wallet" gorm:"not null;size:64;index"`
	BenefitID string `json:"benefit_id" gorm:"not null;size:64;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (BenefitClaim) TableName() string {
	return "benefit_claims"
}

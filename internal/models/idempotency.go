package models

import "time"

// IdempotentResponse caches the JSON result of a mutating operation keyed by
// its request id. Written once, read on every replay. The table is not
// expired; the Redis front cache carries the TTL.
type IdempotentResponse struct {
	RequestID    string `json:"request_id" gorm:"primaryKey;size:36"`
	ResponseData string `json:"response_data" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (IdempotentResponse) TableName() string {
	return "idempotency_store"
}

package models

import "time"

// ExportRequest selects what an admin export covers.
type ExportRequest struct {
	Wallet   *string    `json:"wallet"`
	Format   string     `json:"format" validate:"oneof=xlsx csv"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
}

// ExportResult wraps generated export bytes with download metadata.
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	RowCount    int    `json:"row_count"`
}

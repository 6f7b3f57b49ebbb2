package postgres

import (
	"context"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
)

type AttestationPostgreSQL struct {
	db *gorm.DB
}

func NewAttestationPostgreSQL(db *gorm.DB) repositories.AttestationRepository {
	return &AttestationPostgreSQL{db: db}
}

func (a AttestationPostgreSQL) Create(ctx context.Context, attestation *models.Attestation) error {
	return a.db.WithContext(ctx).Create(attestation).Error
}

func (a AttestationPostgreSQL) ListByWallet(ctx context.Context, wallet string) ([]*models.Attestation, error) {
	var rows []*models.Attestation
	if err := a.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

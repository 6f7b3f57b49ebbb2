package postgres

import (
	"context"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
)

type BenefitPostgreSQL struct {
	db *gorm.DB
}

func NewBenefitPostgreSQL(db *gorm.DB) repositories.BenefitRepository {
	return &BenefitPostgreSQL{db: db}
}

func (b BenefitPostgreSQL) Create(ctx context.Context, claim *models.BenefitClaim) error {
	return b.db.WithContext(ctx).Create(claim).Error
}

func (b BenefitPostgreSQL) ListByWallet(ctx context.Context, wallet string) ([]*models.BenefitClaim, error) {
	var claims []*models.BenefitClaim
	if err := b.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (b BenefitPostgreSQL) ListByDateRange(ctx context.Context, from, to *time.Time) ([]*models.BenefitClaim, error) {
	query := b.db.WithContext(ctx).Model(&models.BenefitClaim{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var claims []*models.BenefitClaim
	if err := query.Order("created_at DESC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (b BenefitPostgreSQL) CountByWalletAndBenefit(ctx context.Context, wallet, benefitID string) (int64, error) {
	var count int64
	err := b.db.WithContext(ctx).
		Model(&models.BenefitClaim{}).
		Where("wallet = ? AND benefit_id = ?", wallet, benefitID).
		Count(&count).Error
	return count, err
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.Attempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, attemptID string) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := a.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) ListByWallet(ctx context.Context, wallet string) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	if err := a.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a AttemptPostgreSQL) ListByDateRange(ctx context.Context, from, to *time.Time) ([]*models.Attempt, error) {
	query := a.db.WithContext(ctx).Model(&models.Attempt{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var attempts []*models.Attempt
	if err := query.Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

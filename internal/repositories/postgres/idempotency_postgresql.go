package postgres

import (
	"context"
	"errors"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdempotencyPostgreSQL struct {
	db *gorm.DB
}

func NewIdempotencyPostgreSQL(db *gorm.DB) repositories.IdempotencyRepository {
	return &IdempotencyPostgreSQL{db: db}
}

func (i IdempotencyPostgreSQL) Get(ctx context.Context, requestID string) (*models.IdempotentResponse, error) {
	var stored models.IdempotentResponse
	if err := i.db.WithContext(ctx).Where("request_id = ?", requestID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

// PutIfAbsent inserts behind the primary key and reads the stored row back.
// When two callers race on the same request id the database picks the winner
// and both get the winner's response bytes.
func (i IdempotencyPostgreSQL) PutIfAbsent(ctx context.Context, requestID, responseData string) (string, error) {
	record := models.IdempotentResponse{RequestID: requestID, ResponseData: responseData}
	if err := i.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return "", err
	}

	var stored models.IdempotentResponse
	if err := i.db.WithContext(ctx).Where("request_id = ?", requestID).First(&stored).Error; err != nil {
		return "", err
	}
	return stored.ResponseData, nil
}

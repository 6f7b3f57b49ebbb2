package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p ProgressPostgreSQL) Get(ctx context.Context, wallet, courseID, moduleID string) (*models.Progress, error) {
	var progress models.Progress
	if err := p.db.WithContext(ctx).
		Where("wallet = ? AND course_id = ? AND module_id = ?", wallet, courseID, moduleID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (p ProgressPostgreSQL) ListByWallet(ctx context.Context, wallet string) ([]*models.Progress, error) {
	var rows []*models.Progress
	if err := p.db.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("course_id, module_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes the progress row in a single statement. On conflict the
// version is bumped with a store-side expression so concurrent writers never
// produce the same version number, and RETURNING reads the winning row back
// into the argument.
func (p ProgressPostgreSQL) Upsert(ctx context.Context, progress *models.Progress) error {
	progress.Version = 1
	return p.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "wallet"}, {Name: "course_id"}, {Name: "module_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"latest_attempt_id": progress.LatestAttemptID,
				"status":            progress.Status,
				"passed_at":         progress.PassedAt,
				"version":           gorm.Expr("progress.version + 1"),
				"updated_at":        time.Now(),
			}),
		},
		clause.Returning{},
	).Create(progress).Error
}

// UpdateStatus transitions an existing row and bumps its version atomically.
// Returns the not-found error when no row exists for the key.
func (p ProgressPostgreSQL) UpdateStatus(ctx context.Context, wallet, courseID, moduleID string, status models.ProgressStatus) (*models.Progress, error) {
	result := p.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("wallet = ? AND course_id = ? AND module_id = ?", wallet, courseID, moduleID).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var progress models.Progress
	if err := p.db.WithContext(ctx).
		Where("wallet = ? AND course_id = ? AND module_id = ?", wallet, courseID, moduleID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// Enroll asserts the NOT_STARTED row. An existing row, whatever its status,
// is left untouched.
func (p ProgressPostgreSQL) Enroll(ctx context.Context, wallet, courseID, moduleID string) error {
	row := models.Progress{
		Wallet:   wallet,
		CourseID: courseID,
		ModuleID: moduleID,
		Status:   models.ProgressNotStarted,
		Version:  1,
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet"}, {Name: "course_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

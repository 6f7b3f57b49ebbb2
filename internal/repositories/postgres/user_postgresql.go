package postgres

import (
	"context"
	"errors"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u UserPostgreSQL) Upsert(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
	}).Create(user).Error
}

func (u UserPostgreSQL) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("wallet = ?", wallet).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u UserPostgreSQL) GetRoles(ctx context.Context, wallet string) ([]models.Role, error) {
	var assignments []models.UserRole
	if err := u.db.WithContext(ctx).Where("wallet = ?", wallet).Find(&assignments).Error; err != nil {
		return nil, err
	}

	roles := make([]models.Role, len(assignments))
	for i, a := range assignments {
		roles[i] = a.Role
	}
	return roles, nil
}

func (u UserPostgreSQL) AssignRole(ctx context.Context, wallet string, role models.Role) error {
	assignment := models.UserRole{Wallet: wallet, Role: role}
	return u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet"}, {Name: "role"}},
		DoNothing: true,
	}).Create(&assignment).Error
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleLearner       Role = "LEARNER"
	RoleTutor         Role = "TUTOR"
	RoleSystem        Role = "SYSTEM"
	RoleBenefitsAdmin Role = "BENEFITS_ADMIN"
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
)

// User is a wallet-identified platform account. The wallet address is the
// primary key; sign-in is handled upstream by signature verification.
type User struct {
	Wallet      string  `json:"wallet" gorm:"primaryKey;size:64"`
	DisplayName *string `json:"display_name" gorm:"size:100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserRole assigns a role to a wallet. A wallet may hold several roles.
type UserRole struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Wallet string `json:"wallet" gorm:"not null;size:64;uniqueIndex:idx_user_roles_wallet_role"`
	Role   Role   `json:"role" gorm:"not null;size:32;uniqueIndex:idx_user_roles_wallet_role" validate:"required,platform_role"`

	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

package postgres

import (
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
)

type repositoryManager struct {
	user        repositories.UserRepository
	course      repositories.CourseRepository
	quiz        repositories.QuizRepository
	attempt     repositories.AttemptRepository
	progress    repositories.ProgressRepository
	benefit     repositories.BenefitRepository
	attestation repositories.AttestationRepository
	idempotency repositories.IdempotencyRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repositoryManager{
		user:        NewUserPostgreSQL(db),
		course:      NewCoursePostgreSQL(db),
		quiz:        NewQuizPostgreSQL(db),
		attempt:     NewAttemptPostgreSQL(db),
		progress:    NewProgressPostgreSQL(db),
		benefit:     NewBenefitPostgreSQL(db),
		attestation: NewAttestationPostgreSQL(db),
		idempotency: NewIdempotencyPostgreSQL(db),
	}
}

func (m *repositoryManager) User() repositories.UserRepository               { return m.user }
func (m *repositoryManager) Course() repositories.CourseRepository          { return m.course }
func (m *repositoryManager) Quiz() repositories.QuizRepository              { return m.quiz }
func (m *repositoryManager) Attempt() repositories.AttemptRepository        { return m.attempt }
func (m *repositoryManager) Progress() repositories.ProgressRepository      { return m.progress }
func (m *repositoryManager) Benefit() repositories.BenefitRepository        { return m.benefit }
func (m *repositoryManager) Attestation() repositories.AttestationRepository { return m.attestation }
func (m *repositoryManager) Idempotency() repositories.IdempotencyRepository { return m.idempotency }

// AutoMigrate creates or updates the service's tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Course{},
		&models.CourseModule{},
		&models.Quiz{},
		&models.QuizItem{},
		&models.Attempt{},
		&models.Progress{},
		&models.BenefitClaim{},
		&models.Attestation{},
		&models.IdempotentResponse{},
	)
}

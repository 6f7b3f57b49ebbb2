package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories so services depend on a
// single seam that both the Postgres and in-memory implementations satisfy.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Progress() ProgressRepository
	Benefit() BenefitRepository
	Attestation() AttestationRepository
	Idempotency() IdempotencyRepository
}

// UserRepository manages wallet accounts and their role assignments.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetRoles(ctx context.Context, wallet string) ([]models.Role, error)
	AssignRole(ctx context.Context, wallet string, role models.Role) error
}

// CourseRepository manages the course catalog.
type CourseRepository interface {
	Upsert(ctx context.Context, course *models.Course) error
	UpsertModules(ctx context.Context, courseID string, modules []models.CourseModule) error
	GetByIDWithModules(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
}

// QuizRepository persists issued quizzes together with their items.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByIDWithItems(ctx context.Context, quizID string) (*models.Quiz, error)
}

// AttemptRepository persists scored attempts. Attempts are append-only.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	GetByID(ctx context.Context, attemptID string) (*models.Attempt, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.Attempt, error)
	ListByDateRange(ctx context.Context, from, to *time.Time) ([]*models.Attempt, error)
}

// ProgressRepository manages per-learner module state.
//
// Upsert performs a store-side conditional write: on conflict the version
// column is incremented atomically (never read-increment-write) and the row
// is read back into the argument. Enroll asserts the NOT_STARTED row without
// touching an existing one.
type ProgressRepository interface {
	Get(ctx context.Context, wallet, courseID, moduleID string) (*models.Progress, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.Progress, error)
	Upsert(ctx context.Context, progress *models.Progress) error
	UpdateStatus(ctx context.Context, wallet, courseID, moduleID string, status models.ProgressStatus) (*models.Progress, error)
	Enroll(ctx context.Context, wallet, courseID, moduleID string) error
}

// BenefitRepository persists minted claim codes.
type BenefitRepository interface {
	Create(ctx context.Context, claim *models.BenefitClaim) error
	ListByWallet(ctx context.Context, wallet string) ([]*models.BenefitClaim, error)
	ListByDateRange(ctx context.Context, from, to *time.Time) ([]*models.BenefitClaim, error)
	CountByWalletAndBenefit(ctx context.Context, wallet, benefitID string) (int64, error)
}

// AttestationRepository logs issued checkpoint proofs.
type AttestationRepository interface {
	Create(ctx context.Context, attestation *models.Attestation) error
	ListByWallet(ctx context.Context, wallet string) ([]*models.Attestation, error)
}

// IdempotencyRepository is the durable response cache keyed by request id.
//
// PutIfAbsent is a unique-constrained insert: when two callers race on the
// same fresh request id, the first write wins and both receive the stored
// response. Failures are never memoized.
type IdempotencyRepository interface {
	Get(ctx context.Context, requestID string) (*models.IdempotentResponse, error)
	PutIfAbsent(ctx context.Context, requestID, responseData string) (string, error)
}

// IsNotFoundError reports whether err is the store's record-missing error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Package memory provides a mutex-guarded in-process Repository. It backs
// unit tests and local development without a database; semantics mirror the
// Postgres implementation, including atomic version bumps and first-writer-
// wins idempotency inserts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
)

type store struct {
	mu sync.Mutex

	users       map[string]models.User
	roles       map[string][]models.Role
	courses     map[string]models.Course
	modules     map[string][]models.CourseModule
	quizzes     map[string]models.Quiz
	attempts    map[string]models.Attempt
	progress    map[string]models.Progress
	claims      []models.BenefitClaim
	attests     []models.Attestation
	idempotency map[string]models.IdempotentResponse
	nextID      uint
}

// NewRepository returns an empty in-memory Repository.
func NewRepository() repositories.Repository {
	return &store{
		users:       make(map[string]models.User),
		roles:       make(map[string][]models.Role),
		courses:     make(map[string]models.Course),
		modules:     make(map[string][]models.CourseModule),
		quizzes:     make(map[string]models.Quiz),
		attempts:    make(map[string]models.Attempt),
		progress:    make(map[string]models.Progress),
		idempotency: make(map[string]models.IdempotentResponse),
	}
}

func (s *store) User() repositories.UserRepository               { return (*userStore)(s) }
func (s *store) Course() repositories.CourseRepository           { return (*courseStore)(s) }
func (s *store) Quiz() repositories.QuizRepository               { return (*quizStore)(s) }
func (s *store) Attempt() repositories.AttemptRepository         { return (*attemptStore)(s) }
func (s *store) Progress() repositories.ProgressRepository       { return (*progressStore)(s) }
func (s *store) Benefit() repositories.BenefitRepository         { return (*benefitStore)(s) }
func (s *store) Attestation() repositories.AttestationRepository { return (*attestationStore)(s) }
func (s *store) Idempotency() repositories.IdempotencyRepository { return (*idempotencyStore)(s) }

func progressKey(wallet, courseID, moduleID string) string {
	return wallet + "|" + courseID + "|" + moduleID
}

type userStore store

func (s *userStore) Upsert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.Wallet]
	if ok {
		existing.DisplayName = user.DisplayName
		existing.UpdatedAt = time.Now()
		s.users[user.Wallet] = existing
		return nil
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.Wallet] = *user
	return nil
}

func (s *userStore) GetByWallet(_ context.Context, wallet string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[wallet]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *userStore) GetRoles(_ context.Context, wallet string) ([]models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := make([]models.Role, len(s.roles[wallet]))
	copy(roles, s.roles[wallet])
	return roles, nil
}

func (s *userStore) AssignRole(_ context.Context, wallet string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles[wallet] {
		if existing == role {
			return nil
		}
	}
	s.roles[wallet] = append(s.roles[wallet], role)
	return nil
}

type courseStore store

func (s *courseStore) Upsert(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *course
	stored.Modules = nil
	if existing, ok := s.courses[course.CourseID]; ok {
		stored.CreatedAt = existing.CreatedAt
		stored.Version = existing.Version + 1
	} else {
		stored.CreatedAt = time.Now()
		stored.Version = 1
	}
	stored.UpdatedAt = time.Now()
	s.courses[course.CourseID] = stored
	*course = stored
	return nil
}

func (s *courseStore) UpsertModules(_ context.Context, courseID string, modules []models.CourseModule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mod := range modules {
		mod.CourseID = courseID
		replaced := false
		for i, existing := range s.modules[courseID] {
			if existing.ModuleID == mod.ModuleID {
				mod.ID = existing.ID
				s.modules[courseID][i] = mod
				replaced = true
				break
			}
		}
		if !replaced {
			s.nextID++
			mod.ID = s.nextID
			s.modules[courseID] = append(s.modules[courseID], mod)
		}
	}
	return nil
}

func (s *courseStore) GetByIDWithModules(_ context.Context, courseID string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseID]
	if !ok {
		return nil, nil
	}
	course.Modules = make([]models.CourseModule, len(s.modules[courseID]))
	copy(course.Modules, s.modules[courseID])
	return &course, nil
}

func (s *courseStore) List(_ context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	courses := make([]*models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		c := course
		courses = append(courses, &c)
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	return courses, nil
}

type quizStore store

func (s *quizStore) Create(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *quiz
	stored.Items = make([]models.QuizItem, len(quiz.Items))
	copy(stored.Items, quiz.Items)
	s.quizzes[quiz.QuizID] = stored
	return nil
}

func (s *quizStore) GetByIDWithItems(_ context.Context, quizID string) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return nil, nil
	}
	items := make([]models.QuizItem, len(quiz.Items))
	copy(items, quiz.Items)
	quiz.Items = items
	return &quiz, nil
}

type attemptStore store

func (s *attemptStore) Create(_ context.Context, attempt *models.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	s.attempts[attempt.AttemptID] = *attempt
	return nil
}

func (s *attemptStore) GetByID(_ context.Context, attemptID string) (*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, nil
	}
	return &attempt, nil
}

func (s *attemptStore) ListByWallet(_ context.Context, wallet string) ([]*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var attempts []*models.Attempt
	for _, attempt := range s.attempts {
		if attempt.Wallet == wallet {
			a := attempt
			attempts = append(attempts, &a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].CreatedAt.After(attempts[j].CreatedAt)
	})
	return attempts, nil
}

func (s *attemptStore) ListByDateRange(_ context.Context, from, to *time.Time) ([]*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var attempts []*models.Attempt
	for _, attempt := range s.attempts {
		if from != nil && attempt.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && attempt.CreatedAt.After(*to) {
			continue
		}
		a := attempt
		attempts = append(attempts, &a)
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].CreatedAt.After(attempts[j].CreatedAt)
	})
	return attempts, nil
}

type progressStore store

func (s *progressStore) Get(_ context.Context, wallet, courseID, moduleID string) (*models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.progress[progressKey(wallet, courseID, moduleID)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *progressStore) ListByWallet(_ context.Context, wallet string) ([]*models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []*models.Progress
	for _, row := range s.progress {
		if row.Wallet == wallet {
			r := row
			rows = append(rows, &r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CourseID != rows[j].CourseID {
			return rows[i].CourseID < rows[j].CourseID
		}
		return rows[i].ModuleID < rows[j].ModuleID
	})
	return rows, nil
}

func (s *progressStore) Upsert(_ context.Context, progress *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(progress.Wallet, progress.CourseID, progress.ModuleID)
	if existing, ok := s.progress[key]; ok {
		existing.LatestAttemptID = progress.LatestAttemptID
		existing.Status = progress.Status
		existing.PassedAt = progress.PassedAt
		existing.Version++
		existing.UpdatedAt = time.Now()
		s.progress[key] = existing
		*progress = existing
		return nil
	}
	s.nextID++
	progress.ID = s.nextID
	progress.Version = 1
	progress.CreatedAt = time.Now()
	progress.UpdatedAt = progress.CreatedAt
	s.progress[key] = *progress
	return nil
}

func (s *progressStore) UpdateStatus(_ context.Context, wallet, courseID, moduleID string, status models.ProgressStatus) (*models.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(wallet, courseID, moduleID)
	row, ok := s.progress[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row.Status = status
	row.Version++
	row.UpdatedAt = time.Now()
	s.progress[key] = row
	return &row, nil
}

func (s *progressStore) Enroll(_ context.Context, wallet, courseID, moduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(wallet, courseID, moduleID)
	if _, ok := s.progress[key]; ok {
		return nil
	}
	s.nextID++
	now := time.Now()
	s.progress[key] = models.Progress{
		ID:        s.nextID,
		Wallet:    wallet,
		CourseID:  courseID,
		ModuleID:  moduleID,
		Status:    models.ProgressNotStarted,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

type benefitStore store

func (s *benefitStore) Create(_ context.Context, claim *models.BenefitClaim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now()
	}
	s.claims = append(s.claims, *claim)
	return nil
}

func (s *benefitStore) ListByWallet(_ context.Context, wallet string) ([]*models.BenefitClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var claims []*models.BenefitClaim
	for i := range s.claims {
		if s.claims[i].Wallet == wallet {
			c := s.claims[i]
			claims = append(claims, &c)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].CreatedAt.After(claims[j].CreatedAt)
	})
	return claims, nil
}

func (s *benefitStore) ListByDateRange(_ context.Context, from, to *time.Time) ([]*models.BenefitClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var claims []*models.BenefitClaim
	for i := range s.claims {
		if from != nil && s.claims[i].CreatedAt.Before(*from) {
			continue
		}
		if to != nil && s.claims[i].CreatedAt.After(*to) {
			continue
		}
		c := s.claims[i]
		claims = append(claims, &c)
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].CreatedAt.After(claims[j].CreatedAt)
	})
	return claims, nil
}

func (s *benefitStore) CountByWalletAndBenefit(_ context.Context, wallet, benefitID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for i := range s.claims {
		if s.claims[i].Wallet == wallet && s.claims[i].BenefitID == benefitID {
			count++
		}
	}
	return count, nil
}

type attestationStore store

func (s *attestationStore) Create(_ context.Context, attestation *models.Attestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	attestation.ID = s.nextID
	if attestation.CreatedAt.IsZero() {
		attestation.CreatedAt = time.Now()
	}
	s.attests = append(s.attests, *attestation)
	return nil
}

func (s *attestationStore) ListByWallet(_ context.Context, wallet string) ([]*models.Attestation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []*models.Attestation
	for i := range s.attests {
		if s.attests[i].Wallet == wallet {
			a := s.attests[i]
			rows = append(rows, &a)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

type idempotencyStore store

func (s *idempotencyStore) Get(_ context.Context, requestID string) (*models.IdempotentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.idempotency[requestID]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

func (s *idempotencyStore) PutIfAbsent(_ context.Context, requestID, responseData string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.idempotency[requestID]; ok {
		return stored.ResponseData, nil
	}
	s.idempotency[requestID] = models.IdempotentResponse{
		RequestID:    requestID,
		ResponseData: responseData,
		CreatedAt:    time.Now(),
	}
	return responseData, nil
}

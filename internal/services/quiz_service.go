package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/quiz"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

// QuizService issues readiness quizzes and serves them back for scoring.
type QuizService interface {
	Generate(ctx context.Context, req *GenerateQuizRequest) (*GenerateQuizResponse, error)
	GetByID(ctx context.Context, quizID string) (*models.Quiz, error)
}

type GenerateQuizRequest struct {
	CourseID string `json:"course_id" validate:"required,max=64"`
	ModuleID string `json:"module_id" validate:"required,max=64"`
}

type GenerateQuizResponse struct {
	QuizID    string              `json:"quiz_id"`
	Items     []models.PublicItem `json:"items"`
	ExpiresAt time.Time           `json:"expires_at"`
}

type quizService struct {
	repo      repositories.Repository
	courses   CourseService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, courses CourseService, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		courses:   courses,
		logger:    logger,
		validator: v,
	}
}

func (s *quizService) Generate(ctx context.Context, req *GenerateQuizRequest) (*GenerateQuizResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !courseHasModule(course, req.ModuleID) {
		return nil, fmt.Errorf("%w: %s/%s", ErrModuleNotFound, req.CourseID, req.ModuleID)
	}

	generated := quiz.Generate(req.CourseID, req.ModuleID, time.Now())
	if err := s.repo.Quiz().Create(ctx, generated); err != nil {
		return nil, NewStoreError("generate_quiz", err)
	}

	// Serve the learner-facing projection; the answer key never leaves the
	// store.
	items := make([]models.PublicItem, len(generated.Items))
	for i, item := range generated.Items {
		items[i] = item.Public()
	}

	s.logger.Info("quiz generated",
		"quiz_id", generated.QuizID,
		"course_id", req.CourseID,
		"module_id", req.ModuleID,
		"expires_at", generated.ExpiresAt)

	return &GenerateQuizResponse{
		QuizID:    generated.QuizID,
		Items:     items,
		ExpiresAt: generated.ExpiresAt,
	}, nil
}

func (s *quizService) GetByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	stored, err := s.repo.Quiz().GetByIDWithItems(ctx, quizID)
	if err != nil {
		return nil, NewStoreError("get_quiz", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}
	return stored, nil
}

func courseHasModule(course *models.Course, moduleID string) bool {
	for _, mod := range course.Modules {
		if mod.ModuleID == moduleID {
			return true
		}
	}
	return false
}

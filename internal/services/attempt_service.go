package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nkwats-ai/checkpoint-service/internal/events"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/quiz"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

// AttemptService scores quiz submissions and records the resulting attempts.
type AttemptService interface {
	Score(ctx context.Context, req *ScoreAttemptRequest, wallet, requestID string) (*ScoreAttemptResponse, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.Attempt, error)
}

type ScoreAttemptRequest struct {
	QuizID      string        `json:"quiz_id" validate:"required,uuid"`
	Answers     []quiz.Answer `json:"answers"`
	StartedAt   time.Time     `json:"started_at" validate:"required"`
	SubmittedAt time.Time     `json:"submitted_at" validate:"required"`
}

type ScoreAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
	ScoreRaw  int    `json:"score_raw"`
	ScoreMax  int    `json:"score_max"`
	DurationS int    `json:"duration_s"`
	Passed    bool   `json:"passed"`
}

type attemptService struct {
	repo      repositories.Repository
	quizzes   QuizService
	publisher events.EventPublisher
	rule      quiz.Rule
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, quizzes QuizService, publisher events.EventPublisher, rule quiz.Rule, logger *slog.Logger, v *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		quizzes:   quizzes,
		publisher: publisher,
		rule:      rule,
		logger:    logger,
		validator: v,
	}
}

func (s *attemptService) Score(ctx context.Context, req *ScoreAttemptRequest, wallet, requestID string) (*ScoreAttemptResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	stored, err := s.quizzes.GetByID(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	result := quiz.Score(stored.Items, req.Answers, req.StartedAt, req.SubmittedAt, s.rule)

	attempt := &models.Attempt{
		AttemptID: uuid.NewString(),
		Wallet:    wallet,
		CourseID:  stored.CourseID,
		ModuleID:  stored.ModuleID,
		QuizID:    stored.QuizID,
		ScoreRaw:  result.ScoreRaw,
		ScoreMax:  result.ScoreMax,
		DurationS: result.DurationS,
		Passed:    result.Passed,
		RequestID: requestID,
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, NewStoreError("score_attempt", err)
	}

	s.logger.Info("attempt scored",
		"attempt_id", attempt.AttemptID,
		"wallet", wallet,
		"quiz_id", stored.QuizID,
		"score", result.ScoreRaw,
		"passed", result.Passed)

	if err := s.publisher.PublishCheckpointEvent(ctx, events.NewAttemptScoredEvent(events.AttemptScoredEvent{
		AttemptID: attempt.AttemptID,
		Wallet:    wallet,
		CourseID:  stored.CourseID,
		ModuleID:  stored.ModuleID,
		QuizID:    stored.QuizID,
		ScoreRaw:  result.ScoreRaw,
		ScoreMax:  result.ScoreMax,
		DurationS: result.DurationS,
		Passed:    result.Passed,
	})); err != nil {
		// Event delivery is best-effort; the attempt row is the source of
		// truth.
		s.logger.Error("failed to publish attempt.scored event", "attempt_id", attempt.AttemptID, "error", err)
	}

	return &ScoreAttemptResponse{
		AttemptID: attempt.AttemptID,
		ScoreRaw:  result.ScoreRaw,
		ScoreMax:  result.ScoreMax,
		DurationS: result.DurationS,
		Passed:    result.Passed,
	}, nil
}

func (s *attemptService) ListByWallet(ctx context.Context, wallet string) ([]*models.Attempt, error) {
	attempts, err := s.repo.Attempt().ListByWallet(ctx, wallet)
	if err != nil {
		return nil, NewStoreError("list_attempts", err)
	}
	return attempts, nil
}

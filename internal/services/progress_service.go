package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/config"
	"github.com/nkwats-ai/checkpoint-service/internal/events"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

// ProgressService applies scoring outcomes to the per-module state machine.
type ProgressService interface {
	Update(ctx context.Context, req *UpdateProgressRequest) (*UpdateProgressResponse, error)
	Get(ctx context.Context, wallet, courseID, moduleID string) (*models.Progress, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.Progress, error)
}

type UpdateProgressRequest struct {
	LearnerAddr string     `json:"learner_addr" validate:"required,max=64"`
	CourseID    string     `json:"course_id" validate:"required,max=64"`
	ModuleID    string     `json:"module_id" validate:"required,max=64"`
	AttemptID   string     `json:"attempt_id" validate:"omitempty,uuid"`
	Passed      bool       `json:"passed"`
	PassedAt    *time.Time `json:"passed_at"`
}

type UpdateProgressResponse struct {
	ProgressVersion int                   `json:"progress_version"`
	Status          models.ProgressStatus `json:"status"`
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	policy    config.CheckpointPolicy
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, policy config.CheckpointPolicy, logger *slog.Logger, v *validator.Validator) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		validator: v,
	}
}

// Update applies a scoring outcome: READY when passed, IN_PROGRESS when not.
// With regression disallowed by policy, a failed re-attempt leaves a READY or
// BENEFIT_CLAIMED learner where they are (the version still advances, the
// write is a deliberate re-assertion of state).
func (s *progressService) Update(ctx context.Context, req *UpdateProgressRequest) (*UpdateProgressResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	status := models.ProgressInProgress
	var passedAt *time.Time
	if req.Passed {
		status = models.ProgressReady
		if req.PassedAt != nil {
			passedAt = req.PassedAt
		} else {
			now := time.Now()
			passedAt = &now
		}
	}

	current, err := s.repo.Progress().Get(ctx, req.LearnerAddr, req.CourseID, req.ModuleID)
	if err != nil {
		return nil, NewStoreError("update_progress", err)
	}
	if current != nil && !s.policy.AllowRegression && rankStatus(current.Status) > rankStatus(status) {
		status = current.Status
		passedAt = current.PassedAt
	}

	row := &models.Progress{
		Wallet:   req.LearnerAddr,
		CourseID: req.CourseID,
		ModuleID: req.ModuleID,
		Status:   status,
		PassedAt: passedAt,
	}
	if req.AttemptID != "" {
		row.LatestAttemptID = &req.AttemptID
	}
	if err := s.repo.Progress().Upsert(ctx, row); err != nil {
		return nil, NewStoreError("update_progress", err)
	}

	s.logger.Info("progress updated",
		"wallet", req.LearnerAddr,
		"course_id", req.CourseID,
		"module_id", req.ModuleID,
		"status", row.Status,
		"version", row.Version)

	if err := s.publisher.PublishCheckpointEvent(ctx, events.NewProgressUpdatedEvent(events.ProgressUpdatedEvent{
		Wallet:          req.LearnerAddr,
		CourseID:        req.CourseID,
		ModuleID:        req.ModuleID,
		Status:          string(row.Status),
		LatestAttemptID: row.LatestAttemptID,
		PassedAt:        row.PassedAt,
		Version:         row.Version,
	})); err != nil {
		s.logger.Error("failed to publish progress.updated event", "wallet", req.LearnerAddr, "error", err)
	}

	return &UpdateProgressResponse{
		ProgressVersion: row.Version,
		Status:          row.Status,
	}, nil
}

func (s *progressService) Get(ctx context.Context, wallet, courseID, moduleID string) (*models.Progress, error) {
	row, err := s.repo.Progress().Get(ctx, wallet, courseID, moduleID)
	if err != nil {
		return nil, NewStoreError("get_progress", err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrProgressNotFound, wallet, courseID, moduleID)
	}
	return row, nil
}

func (s *progressService) ListByWallet(ctx context.Context, wallet string) ([]*models.Progress, error) {
	rows, err := s.repo.Progress().ListByWallet(ctx, wallet)
	if err != nil {
		return nil, NewStoreError("list_progress", err)
	}
	return rows, nil
}

// rankStatus orders statuses along the forward path of the state machine.
func rankStatus(status models.ProgressStatus) int {
	switch status {
	case models.ProgressNotStarted:
		return 0
	case models.ProgressInProgress:
		return 1
	case models.ProgressReady:
		return 2
	case models.ProgressBenefitClaimed:
		return 3
	default:
		return -1
	}
}

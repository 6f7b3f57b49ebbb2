package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nkwats-ai/checkpoint-service/internal/config"
	"github.com/nkwats-ai/checkpoint-service/internal/events"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

const (
	// CheckpointCourseID and CheckpointModuleID name the module whose READY
	// status gates benefit eligibility.
	CheckpointCourseID = "MATH101"
	CheckpointModuleID = "readiness"

	claimCodeLength = 12
)

// BenefitService validates eligibility and mints one-time claim codes.
type BenefitService interface {
	Grant(ctx context.Context, req *GrantBenefitRequest) (*GrantBenefitResponse, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.BenefitClaim, error)
}

type GrantBenefitRequest struct {
	LearnerAddr string `json:"learner_addr" validate:"required,max=64"`
	BenefitID   string `json:"benefit_id" validate:"required,max=64"`
}

type GrantBenefitResponse struct {
	ClaimCode string `json:"claim_code"`
}

type benefitService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	policy    config.CheckpointPolicy
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBenefitService(repo repositories.Repository, publisher events.EventPublisher, policy config.CheckpointPolicy, logger *slog.Logger, v *validator.Validator) BenefitService {
	return &benefitService{
		repo:      repo,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		validator: v,
	}
}

// Grant mints a claim code once the readiness checkpoint is passed. Retried
// logical requests are absorbed by the idempotency gate upstream; a second
// distinct request mints a second code unless the single-claim policy is on.
func (s *benefitService) Grant(ctx context.Context, req *GrantBenefitRequest) (*GrantBenefitResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	progress, err := s.repo.Progress().Get(ctx, req.LearnerAddr, CheckpointCourseID, CheckpointModuleID)
	if err != nil {
		return nil, NewStoreError("grant_benefit", err)
	}
	if progress == nil || !isEligible(progress.Status) {
		s.logger.Warn("benefit grant refused", "wallet", req.LearnerAddr, "benefit_id", req.BenefitID)
		return nil, ErrNotEligible
	}

	if s.policy.SingleClaimPerBenefit {
		count, err := s.repo.Benefit().CountByWalletAndBenefit(ctx, req.LearnerAddr, req.BenefitID)
		if err != nil {
			return nil, NewStoreError("grant_benefit", err)
		}
		if count > 0 {
			return nil, ErrBenefitAlreadyClaimed
		}
	}

	claim := &models.BenefitClaim{
		ClaimCode: newClaimCode(),
		Wallet:    req.LearnerAddr,
		BenefitID: req.BenefitID,
	}
	if err := s.repo.Benefit().Create(ctx, claim); err != nil {
		return nil, NewStoreError("grant_benefit", err)
	}

	if _, err := s.repo.Progress().UpdateStatus(ctx, req.LearnerAddr, CheckpointCourseID, CheckpointModuleID, models.ProgressBenefitClaimed); err != nil {
		return nil, NewStoreError("grant_benefit", err)
	}

	s.logger.Info("benefit granted",
		"wallet", req.LearnerAddr,
		"benefit_id", req.BenefitID,
		"claim_code", claim.ClaimCode)

	if err := s.publisher.PublishCheckpointEvent(ctx, events.NewBenefitGrantedEvent(events.BenefitGrantedEvent{
		Wallet:    req.LearnerAddr,
		BenefitID: req.BenefitID,
		ClaimCode: claim.ClaimCode,
		CourseID:  CheckpointCourseID,
		ModuleID:  CheckpointModuleID,
	})); err != nil {
		s.logger.Error("failed to publish benefit.granted event", "wallet", req.LearnerAddr, "error", err)
	}

	return &GrantBenefitResponse{ClaimCode: claim.ClaimCode}, nil
}

func (s *benefitService) ListByWallet(ctx context.Context, wallet string) ([]*models.BenefitClaim, error) {
	claims, err := s.repo.Benefit().ListByWallet(ctx, wallet)
	if err != nil {
		return nil, NewStoreError("list_claims", err)
	}
	return claims, nil
}

func isEligible(status models.ProgressStatus) bool {
	return status == models.ProgressReady || status == models.ProgressBenefitClaimed
}

// newClaimCode derives a 12-character uppercase alphanumeric code from a
// fresh random identifier.
func newClaimCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:claimCodeLength])
}

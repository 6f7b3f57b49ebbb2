package services

import (
	"context"
	"log/slog"

	"github.com/nkwats-ai/checkpoint-service/internal/events"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/quiz"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"gorm.io/datatypes"
)

// AttestationService issues checkpoint proofs. On-chain issuance is
// deferred; the proof hash is logged locally and eas_uid stays null.
type AttestationService interface {
	Issue(ctx context.Context, req *IssueAttestationRequest, requestID string) (*IssueAttestationResponse, error)
	ListByWallet(ctx context.Context, wallet string) ([]*models.Attestation, error)
}

type IssueAttestationRequest struct {
	LearnerAddr string `json:"learner_addr" validate:"required,max=64"`
	CourseID    string `json:"course_id" validate:"required,max=64"`
	ModuleID    string `json:"module_id" validate:"required,max=64"`
	ScorePct    int    `json:"score_pct" validate:"min=0,max=100"`
	PassedAt    string `json:"passed_at" validate:"required"`
}

type IssueAttestationResponse struct {
	ProofHash string  `json:"proof_hash"`
	EasUID    *string `json:"eas_uid"`
}

type attestationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttestationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AttestationService {
	return &attestationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *attestationService) Issue(ctx context.Context, req *IssueAttestationRequest, requestID string) (*IssueAttestationResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	proofHash, err := quiz.AttestationProof(req.LearnerAddr, req.CourseID, req.ModuleID, req.ScorePct, req.PassedAt)
	if err != nil {
		return nil, err
	}
	payload, err := quiz.CanonicalAttestation(req.LearnerAddr, req.CourseID, req.ModuleID, req.ScorePct, req.PassedAt)
	if err != nil {
		return nil, err
	}

	attestation := &models.Attestation{
		Wallet:    req.LearnerAddr,
		CourseID:  req.CourseID,
		ModuleID:  req.ModuleID,
		ScorePct:  req.ScorePct,
		PassedAt:  req.PassedAt,
		ProofHash: proofHash,
		Payload:   datatypes.JSON(payload),
	}
	if requestID != "" {
		attestation.RequestID = &requestID
	}
	if err := s.repo.Attestation().Create(ctx, attestation); err != nil {
		return nil, NewStoreError("issue_attestation", err)
	}

	s.logger.Info("attestation issued",
		"wallet", req.LearnerAddr,
		"course_id", req.CourseID,
		"module_id", req.ModuleID,
		"proof_hash", proofHash)

	if err := s.publisher.PublishCheckpointEvent(ctx, events.NewAttestationIssuedEvent(events.AttestationIssuedEvent{
		Wallet:    req.LearnerAddr,
		CourseID:  req.CourseID,
		ModuleID:  req.ModuleID,
		ScorePct:  req.ScorePct,
		ProofHash: proofHash,
	})); err != nil {
		s.logger.Error("failed to publish attestation.issued event", "wallet", req.LearnerAddr, "error", err)
	}

	return &IssueAttestationResponse{ProofHash: proofHash, EasUID: nil}, nil
}

func (s *attestationService) ListByWallet(ctx context.Context, wallet string) ([]*models.Attestation, error) {
	rows, err := s.repo.Attestation().ListByWallet(ctx, wallet)
	if err != nil {
		return nil, NewStoreError("list_attestations", err)
	}
	return rows, nil
}

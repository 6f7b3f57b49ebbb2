package auth

import (
	"context"
	"fmt"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
)

// SignInRequest carries the wallet signature handshake.
type SignInRequest struct {
	Wallet      string  `json:"wallet" validate:"required,max=64"`
	Message     string  `json:"message" validate:"required"`
	Signature   string  `json:"signature" validate:"required"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
}

// Service handles wallet sign-in. A successful sign-in upserts the user
// record, guarantees the LEARNER role, and returns the caller's session.
type Service struct {
	repo        repositories.Repository
	verifier    SignatureVerifier
	broadcaster *Broadcaster
	logger      utils.Logger
}

func NewService(repo repositories.Repository, verifier SignatureVerifier, broadcaster *Broadcaster, logger utils.Logger) *Service {
	return &Service{
		repo:        repo,
		verifier:    verifier,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*Session, error) {
	if err := s.verifier.Verify(ctx, req.Wallet, req.Message, req.Signature); err != nil {
		s.logger.Warn("sign-in rejected", "wallet", req.Wallet, "error", err)
		return nil, err
	}

	user := &models.User{
		Wallet:      req.Wallet,
		DisplayName: req.DisplayName,
	}
	if err := s.repo.User().Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// Every signed-in wallet is at least a learner.
	if err := s.repo.User().AssignRole(ctx, req.Wallet, models.RoleLearner); err != nil {
		return nil, fmt.Errorf("failed to assign learner role: %w", err)
	}

	session, err := s.SessionFor(ctx, req.Wallet)
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet signed in", "wallet", req.Wallet, "roles", session.Roles)
	if s.broadcaster != nil {
		s.broadcaster.Notify(SessionEvent{Wallet: req.Wallet, Event: "signed_in"})
	}
	return session, nil
}

// SessionFor loads the session for a known wallet. Returns a session with no
// roles when the wallet has never signed in.
func (s *Service) SessionFor(ctx context.Context, wallet string) (*Session, error) {
	user, err := s.repo.User().GetByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	session := &Session{Wallet: wallet}
	if user != nil {
		session.DisplayName = user.DisplayName
	}

	roles, err := s.repo.User().GetRoles(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	session.Roles = roles
	return session, nil
}

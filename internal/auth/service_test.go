package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories/memory"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*Service, *Broadcaster) {
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	broadcaster := NewBroadcaster()
	return NewService(memory.NewRepository(), NewDevSignatureVerifier(), broadcaster, logger), broadcaster
}

func TestSignInCreatesLearnerSession(t *testing.T) {
	svc, _ := newAuthService()

	name := "Ada"
	session, err := svc.SignIn(context.Background(), SignInRequest{
		Wallet:      "0xabc",
		Message:     "sign-in nonce",
		Signature:   "0xsigned",
		DisplayName: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "0xabc", session.Wallet)
	assert.True(t, session.HasRole(models.RoleLearner))
	require.NotNil(t, session.DisplayName)
	assert.Equal(t, "Ada", *session.DisplayName)
}

func TestSignInRejectsBadSignature(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.SignIn(context.Background(), SignInRequest{
		Wallet:    "0xabc",
		Message:   "sign-in nonce",
		Signature: "",
	})
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = svc.SignIn(context.Background(), SignInRequest{
		Wallet:    "not-a-wallet",
		Message:   "sign-in nonce",
		Signature: "0xsigned",
	})
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestSignInIsRepeatable(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := SignInRequest{Wallet: "0xabc", Message: "nonce", Signature: "0xsigned"}
	_, err := svc.SignIn(ctx, req)
	require.NoError(t, err)

	session, err := svc.SignIn(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleLearner}, session.Roles, "re-sign-in must not duplicate roles")
}

func TestSignInNotifiesSubscribers(t *testing.T) {
	svc, broadcaster := newAuthService()

	ch, cancel := broadcaster.Subscribe()
	defer cancel()

	_, err := svc.SignIn(context.Background(), SignInRequest{Wallet: "0xabc", Message: "nonce", Signature: "0xsigned"})
	require.NoError(t, err)

	select {
	case event := <-ch:
		assert.Equal(t, "0xabc", event.Wallet)
		assert.Equal(t, "signed_in", event.Event)
	default:
		t.Fatal("expected a session event")
	}
}

func TestSessionRoleChecks(t *testing.T) {
	session := &Session{Wallet: "0xabc", Roles: []models.Role{models.RoleLearner, models.RoleTutor}}

	assert.True(t, session.HasRole(models.RoleTutor))
	assert.False(t, session.HasRole(models.RolePlatformAdmin))
	assert.True(t, session.HasAnyRole(models.RolePlatformAdmin, models.RoleLearner))
	assert.False(t, session.HasAnyRole(models.RolePlatformAdmin, models.RoleSystem))

	var nilSession *Session
	assert.False(t, nilSession.HasRole(models.RoleLearner))
}

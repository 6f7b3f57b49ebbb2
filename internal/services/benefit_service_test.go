package services

import (
	"context"
	"testing"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProgress(t *testing.T, env *testEnv, wallet string, status models.ProgressStatus) {
	t.Helper()
	require.NoError(t, env.repo.Progress().Upsert(context.Background(), &models.Progress{
		Wallet:   wallet,
		CourseID: CheckpointCourseID,
		ModuleID: CheckpointModuleID,
		Status:   status,
	}))
}

func TestGrantEligibilityGate(t *testing.T) {
	tests := []struct {
		name    string
		status  models.ProgressStatus
		seed    bool
		wantErr error
	}{
		{name: "absent progress", seed: false, wantErr: ErrNotEligible},
		{name: "not started", seed: true, status: models.ProgressNotStarted, wantErr: ErrNotEligible},
		{name: "in progress", seed: true, status: models.ProgressInProgress, wantErr: ErrNotEligible},
		{name: "ready", seed: true, status: models.ProgressReady},
		{name: "already claimed", seed: true, status: models.ProgressBenefitClaimed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, defaultPolicy())
			wallet := "0xlearner"
			if tt.seed {
				seedProgress(t, env, wallet, tt.status)
			}

			resp, err := env.benefits.Grant(context.Background(), &GrantBenefitRequest{
				LearnerAddr: wallet,
				BenefitID:   "B-2026",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				claims, listErr := env.repo.Benefit().ListByWallet(context.Background(), wallet)
				require.NoError(t, listErr)
				assert.Empty(t, claims, "a refused grant must not write")
				return
			}

			require.NoError(t, err)
			assert.Len(t, resp.ClaimCode, 12)

			row, err := env.repo.Progress().Get(context.Background(), wallet, CheckpointCourseID, CheckpointModuleID)
			require.NoError(t, err)
			assert.Equal(t, models.ProgressBenefitClaimed, row.Status)
		})
	}
}

func TestGrantSingleClaimPolicy(t *testing.T) {
	policy := defaultPolicy()
	policy.SingleClaimPerBenefit = true
	env := newTestEnv(t, policy)
	ctx := context.Background()
	wallet := "0xlearner"
	seedProgress(t, env, wallet, models.ProgressReady)

	req := &GrantBenefitRequest{LearnerAddr: wallet, BenefitID: "B-2026"}

	_, err := env.benefits.Grant(ctx, req)
	require.NoError(t, err)

	_, err = env.benefits.Grant(ctx, req)
	assert.ErrorIs(t, err, ErrBenefitAlreadyClaimed)

	// A different benefit id is still grantable.
	_, err = env.benefits.Grant(ctx, &GrantBenefitRequest{LearnerAddr: wallet, BenefitID: "B-2027"})
	assert.NoError(t, err)
}

func TestGrantRepeatableWithoutSingleClaimPolicy(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"
	seedProgress(t, env, wallet, models.ProgressReady)

	req := &GrantBenefitRequest{LearnerAddr: wallet, BenefitID: "B-2026"}

	first, err := env.benefits.Grant(ctx, req)
	require.NoError(t, err)
	second, err := env.benefits.Grant(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ClaimCode, second.ClaimCode)

	claims, err := env.repo.Benefit().ListByWallet(ctx, wallet)
	require.NoError(t, err)
	assert.Len(t, claims, 2)
}

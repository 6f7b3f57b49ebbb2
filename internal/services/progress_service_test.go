package services

import (
	"context"
	"testing"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressVersionMonotonic(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()

	req := &UpdateProgressRequest{
		LearnerAddr: "0xlearner",
		CourseID:    CheckpointCourseID,
		ModuleID:    CheckpointModuleID,
		Passed:      false,
	}

	for i := 1; i <= 5; i++ {
		resp, err := env.progress.Update(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, i, resp.ProgressVersion, "version must equal the number of upserts")
	}
}

func TestProgressStatusFollowsOutcome(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()

	req := &UpdateProgressRequest{
		LearnerAddr: "0xlearner",
		CourseID:    CheckpointCourseID,
		ModuleID:    CheckpointModuleID,
		Passed:      false,
	}
	resp, err := env.progress.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressInProgress, resp.Status)

	req.Passed = true
	resp, err = env.progress.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressReady, resp.Status)

	row, err := env.repo.Progress().Get(ctx, "0xlearner", CheckpointCourseID, CheckpointModuleID)
	require.NoError(t, err)
	require.NotNil(t, row.PassedAt)
}

func TestProgressRegressionAllowed(t *testing.T) {
	policy := defaultPolicy()
	policy.AllowRegression = true
	env := newTestEnv(t, policy)
	ctx := context.Background()

	req := &UpdateProgressRequest{
		LearnerAddr: "0xlearner",
		CourseID:    CheckpointCourseID,
		ModuleID:    CheckpointModuleID,
		Passed:      true,
	}
	resp, err := env.progress.Update(ctx, req)
	require.NoError(t, err)
	require.Equal(t, models.ProgressReady, resp.Status)

	// A later failed attempt moves the learner back.
	req.Passed = false
	resp, err = env.progress.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressInProgress, resp.Status)
	assert.Equal(t, 2, resp.ProgressVersion)
}

func TestProgressRegressionDisallowed(t *testing.T) {
	policy := defaultPolicy()
	policy.AllowRegression = false
	env := newTestEnv(t, policy)
	ctx := context.Background()

	req := &UpdateProgressRequest{
		LearnerAddr: "0xlearner",
		CourseID:    CheckpointCourseID,
		ModuleID:    CheckpointModuleID,
		Passed:      true,
	}
	resp, err := env.progress.Update(ctx, req)
	require.NoError(t, err)
	require.Equal(t, models.ProgressReady, resp.Status)

	// A later failed attempt cannot demote a READY learner.
	req.Passed = false
	resp, err = env.progress.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressReady, resp.Status)
	assert.Equal(t, 2, resp.ProgressVersion, "the write still advances the version")

	row, err := env.repo.Progress().Get(ctx, "0xlearner", CheckpointCourseID, CheckpointModuleID)
	require.NoError(t, err)
	assert.NotNil(t, row.PassedAt, "the original pass timestamp is preserved")
}

func TestProgressGetAbsent(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	_, err := env.progress.Get(context.Background(), "0xnobody", CheckpointCourseID, CheckpointModuleID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesNotStartedRows(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"

	registerCheckpointCourse(t, env)

	resp, err := env.courses.Enroll(ctx, wallet, CheckpointCourseID)
	require.NoError(t, err)
	assert.Equal(t, CheckpointCourseID, resp.CourseID)
	require.Equal(t, []string{CheckpointModuleID}, resp.Modules)

	row, err := env.repo.Progress().Get(ctx, wallet, CheckpointCourseID, CheckpointModuleID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, models.ProgressNotStarted, row.Status)
	assert.Equal(t, 1, row.Version)
}

func TestEnrollIsIdempotent(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())
	ctx := context.Background()
	wallet := "0xlearner"

	registerCheckpointCourse(t, env)

	_, err := env.courses.Enroll(ctx, wallet, CheckpointCourseID)
	require.NoError(t, err)

	// The learner makes progress, then re-enrolls.
	_, err = env.repo.Progress().UpdateStatus(ctx, wallet, CheckpointCourseID, CheckpointModuleID, models.ProgressReady)
	require.NoError(t, err)

	_, err = env.courses.Enroll(ctx, wallet, CheckpointCourseID)
	require.NoError(t, err)

	row, err := env.repo.Progress().Get(ctx, wallet, CheckpointCourseID, CheckpointModuleID)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressReady, row.Status, "re-enrollment must not reset progress")
}

func TestEnrollUnknownCourse(t *testing.T) {
	env := newTestEnv(t, defaultPolicy())

	_, err := env.courses.Enroll(context.Background(), "0xlearner", "NOPE404")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

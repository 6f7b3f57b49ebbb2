package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories/memory"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedAttempts(t *testing.T, repo repositories.Repository, wallet string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Attempt().Create(context.Background(), &models.Attempt{
			AttemptID: uuid.NewString(),
			Wallet:    wallet,
			CourseID:  CheckpointCourseID,
			ModuleID:  CheckpointModuleID,
			QuizID:    uuid.NewString(),
			ScoreRaw:  8,
			ScoreMax:  10,
			DurationS: 100,
			Passed:    true,
		}))
	}
}

func TestExportAttemptsCSV(t *testing.T) {
	repo := memory.NewRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExportService(repo, logger, validator.New())

	wallet := "0xlearner"
	seedAttempts(t, repo, wallet, 3)

	result, err := svc.ExportAttempts(context.Background(), &models.ExportRequest{
		Wallet: &wallet,
		Format: "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, 3, result.RowCount)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus three rows")
	assert.Equal(t, attemptHeader, records[0])
	assert.Equal(t, wallet, records[1][1])
}

func TestExportClaimsExcel(t *testing.T) {
	repo := memory.NewRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExportService(repo, logger, validator.New())

	wallet := "0xlearner"
	require.NoError(t, repo.Benefit().Create(context.Background(), &models.BenefitClaim{
		ClaimCode: "ABC123DEF456",
		Wallet:    wallet,
		BenefitID: "B-2026",
	}))

	result, err := svc.ExportClaims(context.Background(), &models.ExportRequest{
		Wallet: &wallet,
		Format: "xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("claims")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, claimHeader, rows[0])
	assert.Equal(t, "ABC123DEF456", rows[1][0])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	repo := memory.NewRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExportService(repo, logger, validator.New())

	_, err := svc.ExportAttempts(context.Background(), &models.ExportRequest{Format: "pdf"})
	assert.Error(t, err)
}

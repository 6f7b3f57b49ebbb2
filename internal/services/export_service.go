package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ExportService renders attempts and benefit claims as downloadable CSV or
// Excel reports for tutors and admins.
type ExportService interface {
	ExportAttempts(ctx context.Context, req *models.ExportRequest) (*models.ExportResult, error)
	ExportClaims(ctx context.Context, req *models.ExportRequest) (*models.ExportResult, error)
}

type exportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExportService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ExportService {
	return &exportService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

var attemptHeader = []string{"attempt_id", "wallet", "course_id", "module_id", "quiz_id", "score_raw", "score_max", "duration_s", "passed", "created_at"}

var claimHeader = []string{"claim_code", "wallet", "benefit_id", "created_at"}

func (s *exportService) ExportAttempts(ctx context.Context, req *models.ExportRequest) (*models.ExportResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var attempts []*models.Attempt
	var err error
	if req.Wallet != nil {
		attempts, err = s.repo.Attempt().ListByWallet(ctx, *req.Wallet)
	} else {
		attempts, err = s.repo.Attempt().ListByDateRange(ctx, req.DateFrom, req.DateTo)
	}
	if err != nil {
		return nil, NewStoreError("export_attempts", err)
	}

	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, []string{
			a.AttemptID,
			a.Wallet,
			a.CourseID,
			a.ModuleID,
			a.QuizID,
			strconv.Itoa(a.ScoreRaw),
			strconv.Itoa(a.ScoreMax),
			strconv.Itoa(a.DurationS),
			strconv.FormatBool(a.Passed),
			a.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(req.Format, "attempts", attemptHeader, rows)
}

func (s *exportService) ExportClaims(ctx context.Context, req *models.ExportRequest) (*models.ExportResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var claims []*models.BenefitClaim
	var err error
	if req.Wallet != nil {
		claims, err = s.repo.Benefit().ListByWallet(ctx, *req.Wallet)
	} else {
		claims, err = s.repo.Benefit().ListByDateRange(ctx, req.DateFrom, req.DateTo)
	}
	if err != nil {
		return nil, NewStoreError("export_claims", err)
	}

	rows := make([][]string, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, []string{
			c.ClaimCode,
			c.Wallet,
			c.BenefitID,
			c.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(req.Format, "claims", claimHeader, rows)
}

func (s *exportService) render(format, name string, header []string, rows [][]string) (*models.ExportResult, error) {
	stamp := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		data, err := renderCSV(header, rows)
		if err != nil {
			return nil, err
		}
		return &models.ExportResult{
			Filename:    fmt.Sprintf("%s_%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
			RowCount:    len(rows),
		}, nil

	case "xlsx":
		data, err := renderExcel(name, header, rows)
		if err != nil {
			return nil, err
		}
		return &models.ExportResult{
			Filename:    fmt.Sprintf("%s_%s.xlsx", name, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
			RowCount:    len(rows),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrBadRequest, format)
	}
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

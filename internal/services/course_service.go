package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/cache"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"gorm.io/datatypes"
)

// CourseService manages the course catalog and enrollment.
type CourseService interface {
	Register(ctx context.Context, req *RegisterCourseRequest, createdBy string) (*RegisterCourseResponse, error)
	Enroll(ctx context.Context, wallet, courseID string) (*EnrollResponse, error)
	GetByID(ctx context.Context, courseID string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
}

type CheckpointInput struct {
	ModuleID     string          `json:"module_id" validate:"required,max=64"`
	PassingRule  json.RawMessage `json:"passing_rule"`
	IsCheckpoint bool            `json:"is_checkpoint"`
}

type RegisterCourseRequest struct {
	CourseID    string            `json:"course_id" validate:"required,max=64"`
	Title       string            `json:"title" validate:"required,min=1,max=200"`
	SyllabusURL *string           `json:"syllabus_url" validate:"omitempty,url"`
	Checkpoints []CheckpointInput `json:"checkpoints" validate:"omitempty,dive"`
}

type RegisterCourseResponse struct {
	OK      bool `json:"ok"`
	Version int  `json:"version"`
}

type EnrollResponse struct {
	CourseID string   `json:"course_id"`
	Modules  []string `json:"modules"`
}

type courseService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: v,
	}
}

func courseCacheKey(courseID string) string {
	return "course:" + courseID
}

func (s *courseService) Register(ctx context.Context, req *RegisterCourseRequest, createdBy string) (*RegisterCourseResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		CourseID:    req.CourseID,
		Title:       req.Title,
		SyllabusURL: req.SyllabusURL,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Course().Upsert(ctx, course); err != nil {
		return nil, NewStoreError("register_course", err)
	}

	if len(req.Checkpoints) > 0 {
		modules := make([]models.CourseModule, len(req.Checkpoints))
		for i, cp := range req.Checkpoints {
			modules[i] = models.CourseModule{
				ModuleID:     cp.ModuleID,
				PassingRule:  datatypes.JSON(cp.PassingRule),
				IsCheckpoint: cp.IsCheckpoint,
			}
		}
		if err := s.repo.Course().UpsertModules(ctx, req.CourseID, modules); err != nil {
			return nil, NewStoreError("register_course", err)
		}
	}

	if err := s.cache.Delete(ctx, courseCacheKey(req.CourseID)); err != nil {
		s.logger.Warn("failed to invalidate course cache", "course_id", req.CourseID, "error", err)
	}

	s.logger.Info("course registered",
		"course_id", req.CourseID,
		"version", course.Version,
		"modules", len(req.Checkpoints),
		"created_by", createdBy)

	return &RegisterCourseResponse{OK: true, Version: course.Version}, nil
}

// Enroll asserts a NOT_STARTED progress row for every module of the course.
// Re-enrollment leaves existing rows untouched.
func (s *courseService) Enroll(ctx context.Context, wallet, courseID string) (*EnrollResponse, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]string, 0, len(course.Modules))
	for _, mod := range course.Modules {
		if err := s.repo.Progress().Enroll(ctx, wallet, courseID, mod.ModuleID); err != nil {
			return nil, NewStoreError("enroll", err)
		}
		moduleIDs = append(moduleIDs, mod.ModuleID)
	}

	s.logger.Info("wallet enrolled", "wallet", wallet, "course_id", courseID, "modules", len(moduleIDs))
	return &EnrollResponse{CourseID: courseID, Modules: moduleIDs}, nil
}

func (s *courseService) GetByID(ctx context.Context, courseID string) (*models.Course, error) {
	var cached models.Course
	if err := s.cache.Get(ctx, courseCacheKey(courseID), &cached); err == nil {
		return &cached, nil
	}

	course, err := s.repo.Course().GetByIDWithModules(ctx, courseID)
	if err != nil {
		return nil, NewStoreError("get_course", err)
	}
	if course == nil {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
	}

	if err := s.cache.Set(ctx, courseCacheKey(courseID), course, 5*time.Minute); err != nil {
		s.logger.Warn("failed to cache course", "course_id", courseID, "error", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repo.Course().List(ctx)
	if err != nil {
		return nil, NewStoreError("list_courses", err)
	}
	return courses, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

// Upsert writes the catalog row, bumping the version in the store on
// conflict and reading the winning row back.
func (c CoursePostgreSQL) Upsert(ctx context.Context, course *models.Course) error {
	course.Version = 1
	return c.db.WithContext(ctx).Omit("Modules").Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"title":        course.Title,
				"syllabus_url": course.SyllabusURL,
				"version":      gorm.Expr("courses.version + 1"),
				"updated_at":   time.Now(),
			}),
		},
		clause.Returning{},
	).Create(course).Error
}

func (c CoursePostgreSQL) UpsertModules(ctx context.Context, courseID string, modules []models.CourseModule) error {
	if len(modules) == 0 {
		return nil
	}
	for i := range modules {
		modules[i].CourseID = courseID
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"passing_rule", "is_checkpoint", "updated_at"}),
	}).Create(&modules).Error
}

func (c CoursePostgreSQL) GetByIDWithModules(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).
		Preload("Modules").
		Where("course_id = ?", courseID).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (c CoursePostgreSQL) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

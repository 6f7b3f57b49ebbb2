package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course is the catalog entry a tutor registers. The current platform ships a
// single course (MATH101) but the model is multi-course.
type Course struct {
	CourseID    string  `json:"course_id" gorm:"primaryKey;size:64" validate:"required,max=64"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	SyllabusURL *string `json:"syllabus_url" gorm:"size:500" validate:"omitempty,url"`
	CreatedBy   string  `json:"created_by" gorm:"not null;size:64;index"`
	Version     int     `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Modules []CourseModule `json:"modules" gorm:"foreignKey:CourseID;references:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule is a gradable unit within a course. Checkpoint modules gate
// benefit eligibility; PassingRule carries the module's rule as JSON.
type CourseModule struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CourseID     string         `json:"course_id" gorm:"not null;size:64;uniqueIndex:idx_course_modules_course_module"`
	ModuleID     string         `json:"module_id" gorm:"not null;size:64;uniqueIndex:idx_course_modules_course_module" validate:"required,max=64"`
	PassingRule  datatypes.JSON `json:"passing_rule" gorm:"type:jsonb"`
	IsCheckpoint bool           `json:"is_checkpoint" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
)

// CourseHandler serves course mutations that act on the caller's own
// wallet and therefore don't go through the operation dispatcher.
type CourseHandler struct {
	BaseHandler
	courses services.CourseService
}

func NewCourseHandler(courses services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		courses:     courses,
	}
}

// Enroll handles POST /api/v1/courses/:course_id/enroll. Enrollment is
// idempotent: modules the caller already has progress in are left untouched.
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID := ParseStringParam(c, "course_id")
	if courseID == "" {
		return
	}

	session := auth.SessionFromContext(c)
	if session == nil || session.Wallet == "" {
		h.handleServiceError(c, services.ErrAuthenticationRequired)
		return
	}

	result, err := h.courses.Enroll(c.Request.Context(), session.Wallet, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Enrolled", result)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
)

// ReadHandler serves the read-only surface. Reads are never deduplicated and
// never synthesize request ids.
type ReadHandler struct {
	BaseHandler
	courses      services.CourseService
	attempts     services.AttemptService
	progress     services.ProgressService
	benefits     services.BenefitService
	attestations services.AttestationService
}

func NewReadHandler(
	courses services.CourseService,
	attempts services.AttemptService,
	progress services.ProgressService,
	benefits services.BenefitService,
	attestations services.AttestationService,
	logger utils.Logger,
) *ReadHandler {
	return &ReadHandler{
		BaseHandler:  NewBaseHandler(logger),
		courses:      courses,
		attempts:     attempts,
		progress:     progress,
		benefits:     benefits,
		attestations: attestations,
	}
}

// ListCourses handles GET /api/v1/courses
func (h *ReadHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Courses", courses)
}

// GetCourse handles GET /api/v1/courses/:course_id
func (h *ReadHandler) GetCourse(c *gin.Context) {
	courseID := ParseStringParam(c, "course_id")
	if courseID == "" {
		return
	}

	course, err := h.courses.GetByID(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Course", course)
}

// GetProgress handles GET /api/v1/progress/:wallet/:course_id/:module_id
func (h *ReadHandler) GetProgress(c *gin.Context) {
	wallet := ParseStringParam(c, "wallet")
	if wallet == "" {
		return
	}
	courseID := ParseStringParam(c, "course_id")
	if courseID == "" {
		return
	}
	moduleID := ParseStringParam(c, "module_id")
	if moduleID == "" {
		return
	}

	row, err := h.progress.Get(c.Request.Context(), wallet, courseID, moduleID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Progress", row)
}

// ListProgress handles GET /api/v1/progress/:wallet
func (h *ReadHandler) ListProgress(c *gin.Context) {
	wallet := ParseStringParam(c, "wallet")
	if wallet == "" {
		return
	}

	rows, err := h.progress.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Progress list", rows)
}

// ListAttempts handles GET /api/v1/attempts/:wallet
func (h *ReadHandler) ListAttempts(c *gin.Context) {
	wallet := ParseStringParam(c, "wallet")
	if wallet == "" {
		return
	}

	attempts, err := h.attempts.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Attempts", attempts)
}

// ListClaims handles GET /api/v1/claims/:wallet
func (h *ReadHandler) ListClaims(c *gin.Context) {
	wallet := ParseStringParam(c, "wallet")
	if wallet == "" {
		return
	}

	claims, err := h.benefits.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Claims", claims)
}

// ListAttestations handles GET /api/v1/attestations/:wallet
func (h *ReadHandler) ListAttestations(c *gin.Context) {
	wallet := ParseStringParam(c, "wallet")
	if wallet == "" {
		return
	}

	rows, err := h.attestations.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Attestations", rows)
}

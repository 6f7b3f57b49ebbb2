package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
)

// exportRoles may pull cross-wallet reports.
var exportRoles = []models.Role{models.RoleTutor, models.RoleBenefitsAdmin, models.RolePlatformAdmin}

type ExportHandler struct {
	BaseHandler
	exports services.ExportService
}

func NewExportHandler(exports services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		exports:     exports,
	}
}

// ExportAttempts handles GET /api/v1/exports/attempts
func (h *ExportHandler) ExportAttempts(c *gin.Context) {
	req, ok := h.buildRequest(c)
	if !ok {
		return
	}

	result, err := h.exports.ExportAttempts(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.sendFile(c, result)
}

// ExportClaims handles GET /api/v1/exports/claims
func (h *ExportHandler) ExportClaims(c *gin.Context) {
	req, ok := h.buildRequest(c)
	if !ok {
		return
	}

	result, err := h.exports.ExportClaims(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.sendFile(c, result)
}

func (h *ExportHandler) buildRequest(c *gin.Context) (*models.ExportRequest, bool) {
	session := auth.SessionFromContext(c)
	if session == nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Please sign in", nil)
		return nil, false
	}
	if !session.HasAnyRole(exportRoles...) {
		h.RespondWithError(c, http.StatusForbidden, "Insufficient permissions", nil)
		return nil, false
	}

	req := &models.ExportRequest{
		Format: strings.ToLower(c.DefaultQuery("format", "csv")),
	}
	if wallet := strings.TrimSpace(c.Query("wallet")); wallet != "" {
		req.Wallet = &wallet
	}

	var ok bool
	if req.DateFrom, ok = parseTimeQuery(c, "date_from"); !ok {
		return nil, false
	}
	if req.DateTo, ok = parseTimeQuery(c, "date_to"); !ok {
		return nil, false
	}
	return req, true
}

func (h *ExportHandler) sendFile(c *gin.Context, result *models.ExportResult) {
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Header("X-Row-Count", strconv.Itoa(result.RowCount))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

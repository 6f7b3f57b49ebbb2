package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService *auth.Service
	validator   *validator.Validator
}

func NewAuthHandler(authService *auth.Service, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   v,
	}
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrBadSignature) {
			h.RespondWithError(c, http.StatusUnauthorized, "Signature verification failed", err)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Signed in", session)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session := auth.SessionFromContext(c)
	if session == nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Please sign in", nil)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session", session)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
)

// OpsHandler exposes the RPC-style operation surface. Every mutating
// operation goes through the dispatcher, which owns auth, roles, and
// idempotency.
type OpsHandler struct {
	BaseHandler
	dispatcher *services.Dispatcher
}

func NewOpsHandler(dispatcher *services.Dispatcher, logger utils.Logger) *OpsHandler {
	return &OpsHandler{
		BaseHandler: NewBaseHandler(logger),
		dispatcher:  dispatcher,
	}
}

// Call handles POST /api/v1/ops/:operation
func (h *OpsHandler) Call(c *gin.Context) {
	operation := ParseStringParam(c, "operation")
	if operation == "" {
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	session := auth.SessionFromContext(c)
	result, err := h.dispatcher.Call(c.Request.Context(), session, operation, json.RawMessage(payload))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

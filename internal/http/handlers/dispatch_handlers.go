package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/http/middleware"
	"github.com/you/marketsvc/internal/wire"
)

// Dispatcher serves one action for a session token
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, data json.RawMessage, token string) (interface{}, error)
}

// DispatchHandlers exposes the action dispatcher over HTTP
type DispatchHandlers struct {
	dispatcher Dispatcher
}

// NewDispatchHandlers creates new dispatch handlers
func NewDispatchHandlers(dispatcher Dispatcher) *DispatchHandlers {
	return &DispatchHandlers{dispatcher: dispatcher}
}

// Dispatch handles POST /api/dispatch. Business failures are reported with
// 200 and success=false; only an unknown action (400) or an unexpected
// failure (500) changes the status code.
func (h *DispatchHandlers) Dispatch(c *gin.Context) {
	var req wire.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wire.Response{Error: "invalid request body", Code: string(domain.KindValidation)})
		return
	}

	token := req.SessionID
	if token == "" {
		token = middleware.SessionToken(c)
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), req.Action, req.Data, token)
	if err != nil {
		kind := domain.KindOf(err)
		switch {
		case errors.Is(err, domain.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, wire.Response{Error: err.Error(), Code: string(kind)})
		case kind == domain.KindInternal:
			log.Printf("[http] dispatch %s: %v", req.Action, err)
			c.JSON(http.StatusInternalServerError, wire.Response{Error: "internal server error", Code: string(kind)})
		default:
			c.JSON(http.StatusOK, wire.Response{Error: err.Error(), Code: string(kind)})
		}
		return
	}

	c.JSON(http.StatusOK, wire.Response{Success: true, Data: result})
}

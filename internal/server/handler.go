// Package server provides the HTTP edge of shopchat: request validation and
// JSON plumbing around the conversational core. It owns no business logic.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"shopchat/internal/chat"
	"shopchat/internal/currency"
	"shopchat/internal/logger"
)

// ChatRequest is the request body for POST /chat. SessionID is optional; a
// fresh session is created when it is absent.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the response body for POST /chat. SessionID echoes the
// request's session or names the newly created one, so a client can keep
// conversational context across calls.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	assistant *chat.Assistant
	rates     *currency.Service
}

// NewHandler creates the HTTP handler over the conversational core.
func NewHandler(assistant *chat.Assistant, rates *currency.Service) *Handler {
	return &Handler{assistant: assistant, rates: rates}
}

// Chat handles one chatbot exchange.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = chat.NewSessionID()
		logger.Debug("Created new chat session", "session", sessionID)
	}

	reply := h.assistant.ProcessMessage(c.Request().Context(), sessionID, req.Message)

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply, SessionID: sessionID})
}

// Currencies lists the currency codes conversions currently support.
// GET /currencies
func (h *Handler) Currencies(c echo.Context) error {
	codes, err := h.rates.SupportedCurrencies(c.Request().Context())
	if err != nil {
		if errors.Is(err, currency.ErrRatesUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "exchange rates unavailable"})
		}
		logger.Error("Failed to list currencies", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list currencies"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"currencies": codes})
}

// Health reports process liveness.
// GET /healthz
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

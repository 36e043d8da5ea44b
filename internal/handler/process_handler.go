package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardswitch/internal/errors"
	"cardswitch/internal/service"
)

// ProcessRequest is the inbound transaction request. Amount accepts JSON
// numbers and numeric strings; the exact decimal value is preserved.
type ProcessRequest struct {
	CardNumber string          `json:"cardNumber" validate:"required"`
	PIN        string          `json:"pin" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" validate:"required"`
}

// ProcessResponse is the outbound outcome. TransactionID and Balance are
// present only when Success is true.
type ProcessResponse struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	TransactionID string           `json:"transactionId,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}

// ProcessHandler exposes the ledger processor over HTTP.
type ProcessHandler struct {
	processor service.ProcessingService
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(processor service.ProcessingService) *ProcessHandler {
	return &ProcessHandler{processor: processor}
}

// Process handles POST /process.
func (h *ProcessHandler) Process(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ProcessResponse{Success: false, Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ProcessResponse{Success: false, Message: err.Error()})
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, ProcessResponse{Success: false, Message: "Amount must be > 0"})
	}
	// The processor re-checks the kind defensively, but malformed input
	// is still rejected at the boundary.
	if t := strings.ToLower(req.Type); t != "withdraw" && t != "topup" {
		return c.JSON(http.StatusBadRequest, ProcessResponse{Success: false, Message: "Invalid type (use 'withdraw' or 'topup')"})
	}

	outcome, err := h.processor.Process(c.Request().Context(), req.CardNumber, req.PIN, req.Amount, req.Type)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ProcessResponse{
		Success:       outcome.Success,
		Message:       outcome.Message,
		TransactionID: outcome.TransactionID,
		Balance:       outcome.Balance,
	})
}

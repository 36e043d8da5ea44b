package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cardswitch/internal/errors"
	"cardswitch/internal/service"
)

// QueryHandler exposes the read-only surface: balance and history per
// card, and the unfiltered admin listing.
type QueryHandler struct {
	queries service.QueryService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queries service.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// GetBalance handles GET /customer/:cardNumber/balance. Unknown cards
// read as zero.
func (h *QueryHandler) GetBalance(c echo.Context) error {
	balance, err := h.queries.Balance(c.Request().Context(), c.Param("cardNumber"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, balance)
}

// GetTransactions handles GET /customer/:cardNumber/transactions.
// Unknown cards yield an empty list.
func (h *QueryHandler) GetTransactions(c echo.Context) error {
	txns, err := h.queries.History(c.Request().Context(), c.Param("cardNumber"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, txns)
}

// AdminTransactions handles GET /admin/transactions. Card numbers in the
// records are already masked at write time.
func (h *QueryHandler) AdminTransactions(c echo.Context) error {
	txns, err := h.queries.AllTransactions(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, txns)
}

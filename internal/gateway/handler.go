package gateway

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
)

// Handler exposes the gateway's single transaction endpoint.
type Handler struct {
	forwarder *Forwarder
}

// NewHandler creates a new gateway handler.
func NewHandler(forwarder *Forwarder) *Handler {
	return &Handler{forwarder: forwarder}
}

// Handle handles POST /transaction: validate, apply the routing rule,
// forward, and relay the core's response unchanged.
func (h *Handler) Handle(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, TransactionResponse{Success: false, Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, TransactionResponse{Success: false, Message: err.Error()})
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return c.JSON(http.StatusBadRequest, TransactionResponse{Success: false, Message: "Amount must be > 0"})
	}
	if t := strings.ToLower(req.Type); t != "withdraw" && t != "topup" {
		return c.JSON(http.StatusBadRequest, TransactionResponse{Success: false, Message: "Invalid type (use 'withdraw' or 'topup')"})
	}

	return c.JSON(http.StatusOK, h.forwarder.Route(c.Request().Context(), req))
}

// Register wires the gateway routes and middleware.
func Register(e *echo.Echo, h *Handler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Validator = &requestValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/transaction", h.Handle)
}

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/service"
)

// LoginRequest carries cardholder credentials. The PIN is verified
// against its digest and is never logged or echoed back.
type LoginRequest struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	PIN        string `json:"pin" validate:"required"`
}

// AdminLoginRequest carries the stub admin credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler exposes customer and admin login.
type AuthHandler struct {
	auths service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auths service.AuthService) *AuthHandler {
	return &AuthHandler{auths: auths}
}

// Login handles POST /auth/login. The plain card number is returned to
// the caller that supplied it; only digests are stored.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "message": err.Error()})
	}

	if err := h.auths.CustomerLogin(c.Request().Context(), req.CardNumber, req.PIN); err != nil {
		switch {
		case stderrors.Is(err, apperrors.ErrCardNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "message": "Invalid card"})
		case stderrors.Is(err, apperrors.ErrInvalidPIN):
			return c.JSON(http.StatusUnauthorized, echo.Map{"ok": false, "message": "Invalid PIN"})
		default:
			httpErr := apperrors.MapErrorToHTTP(err)
			return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":         true,
		"cardNumber": req.CardNumber,
		"role":       "CUSTOMER",
	})
}

// AdminLogin handles POST /auth/adminLogin.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "message": err.Error()})
	}

	token, err := h.auths.AdminLogin(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"ok": false, "message": "Invalid admin credentials"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":    true,
		"role":  "ADMIN",
		"token": token,
	})
}

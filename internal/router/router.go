package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cardswitch/internal/config"
	"cardswitch/internal/handler"
)

// Register wires routes and middleware for the core ledger service.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	processHandler *handler.ProcessHandler,
	queryHandler *handler.QueryHandler,
	authHandler *handler.AuthHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Transaction processing (called by the gateway)
	e.POST("/process", processHandler.Process)

	// Cardholder authentication and read-only queries
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/adminLogin", authHandler.AdminLogin)
	e.GET("/customer/:cardNumber/balance", queryHandler.GetBalance)
	e.GET("/customer/:cardNumber/transactions", queryHandler.GetTransactions)

	// Admin routes (require JWT from /auth/adminLogin)
	admin := e.Group("/admin", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))
	admin.GET("/transactions", queryHandler.AdminTransactions)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

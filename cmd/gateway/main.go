package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"cardswitch/internal/config"
	"cardswitch/internal/gateway"
)

func main() {
	cfg := config.Load()

	e := echo.New()

	forwarder := gateway.NewForwarder(cfg.CoreBaseURL)
	gateway.Register(e, gateway.NewHandler(forwarder))

	log.Printf("gateway forwarding transactions to %s", cfg.CoreBaseURL)

	addr := ":" + cfg.GatewayPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("gateway start: %v", err)
	}
}

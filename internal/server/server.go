package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shopchat/internal/logger"
)

// Server wraps the echo instance and its route registrations.
type Server struct {
	echo *echo.Echo
	port int
}

// New creates the HTTP server with all routes registered.
func New(handler *Handler, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	httpLog := logger.NewStyledLogger("HTTP")
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			httpLog.Info("Request handled",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start))
			return err
		}
	})

	e.POST("/chat", handler.Chat)
	e.GET("/currencies", handler.Currencies)
	e.GET("/healthz", handler.Health)

	return &Server{echo: e, port: port}
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "port", s.port)
	return s.echo.Start(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

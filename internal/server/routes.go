package server

import (
	"sweetshop/internal/config"
	"sweetshop/internal/handler"
	"sweetshop/internal/repository"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	userRepo repository.UserRepository,
	authH *handler.AuthHandler,
	sweetH *handler.SweetHandler,
) {
	authH.RegisterRoutes(e, cfg, userRepo)
	sweetH.RegisterRoutes(e, cfg, userRepo)
}

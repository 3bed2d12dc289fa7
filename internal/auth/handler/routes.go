package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/patrick-etcheverry/tuto-authentification/pkg/constant"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Delete("/api/v1/session", h.Logout)
	app.Post("/api/v1/password/forgot", h.ForgotPassword)
	app.Post("/api/v1/password/reset", h.ResetPassword)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", h.RequireRole(constant.AdminRole))
	admin.Get("/users", h.GetAllUsers)
	admin.Get("/attempts", h.GetLoginAttempts)
	admin.Patch("/user/:id/role", h.UpdateUserRole)
}

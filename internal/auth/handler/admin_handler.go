package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/dto"
)

const defaultAttemptsLimit = 100

func (h *AuthHandler) GetAllUsers(c *fiber.Ctx) error {
	accounts, err := h.accountService.ListAccounts(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.UserOutput, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.UserOutput{
			ID:             a.ID,
			Email:          a.Email,
			Role:           a.Role,
			Status:         string(a.Status),
			FailedAttempts: a.FailedAttempts,
			CreatedAt:      a.CreatedAt,
			UpdatedAt:      a.UpdatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// GetLoginAttempts serves the login journal, most recent first.
func (h *AuthHandler) GetLoginAttempts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultAttemptsLimit)

	attempts, err := h.accountService.ListLoginAttempts(c.Context(), limit)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.LoginAttemptOutput, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, dto.LoginAttemptOutput{
			ID:          a.ID,
			Email:       a.Email,
			IPAddress:   a.IPAddress,
			AttemptTime: a.AttemptTime,
			Successful:  a.Successful,
		})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) UpdateUserRole(c *fiber.Ctx) error {
	var input dto.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.accountService.UpdateRole(c.Context(), c.Params("id"), input.Role); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "role updated"})
}

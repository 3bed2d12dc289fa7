package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/dto"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/service"
	autherror "github.com/patrick-etcheverry/tuto-authentification/internal/errors"
)

type AuthHandler struct {
	accountService *service.AccountService
	tokenService   service.TokenGenerator
}

func NewAuthHandler(accountService *service.AccountService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{accountService: accountService, tokenService: tokenService}
}

// errorResponse maps engine outcomes to HTTP responses. Locked
// accounts get 423 with a retry hint; store failures get 503 and are
// never reported as bad credentials.
func errorResponse(c *fiber.Ctx, err error) error {
	var locked *autherror.AccountLockedError
	if errors.As(err, &locked) {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error":               "account temporarily locked",
			"retry_after_seconds": locked.RemainingSeconds,
		})
	}

	var status int
	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrRefreshTokenNotFound),
		errors.Is(err, autherror.ErrRefreshTokenRevoked),
		errors.Is(err, autherror.ErrRefreshTokenExpired),
		errors.Is(err, autherror.ErrDeviceFingerprintMismatch):
		status = fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		status = fiber.StatusConflict
	case errors.Is(err, autherror.ErrAccountNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, autherror.ErrResetTokenExpired):
		status = fiber.StatusGone
	case errors.Is(err, autherror.ErrWeakPassword),
		errors.Is(err, autherror.ErrInvalidResetToken),
		errors.Is(err, autherror.ErrInvalidRole):
		status = fiber.StatusBadRequest
	case errors.Is(err, autherror.ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	default:
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	account, err := h.accountService.Register(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    account.ID,
		"email": account.Email,
		"role":  account.Role,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	// Capture metadata
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())
	input.Fingerprint = c.Get("X-Device-Fingerprint")

	result, err := h.accountService.Authenticate(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.Fingerprint = c.Get("X-Device-Fingerprint")
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.accountService.Refresh(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.accountService.Logout(c.Context(), input); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ForgotPassword issues a reset token. The tutorial flow this service
// descends from displayed the reset link instead of emailing it; the
// token is returned in the response body for the same reason.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	token, err := h.accountService.IssueResetToken(c.Context(), input.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.ResetTokenOutput{ResetToken: token})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.accountService.ResetPassword(c.Context(), input); err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "password reset"})
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/domain"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/dto"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/handler"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/service"
	"github.com/patrick-etcheverry/tuto-authentification/internal/mocks"
)

func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authHandler := newTestHandler(t, mocks.NewMockAccountStore(ctrl), mocks.NewMockTokenGenerator(ctrl))

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/register"},
		{"POST", "/api/v1/login"},
		{"POST", "/api/v1/refresh"},
		{"DELETE", "/api/v1/session"},
		{"POST", "/api/v1/password/forgot"},
		{"POST", "/api/v1/password/reset"},
		{"GET", "/api/v1/admin/users"},
		{"GET", "/api/v1/admin/attempts"},
		{"PATCH", "/api/v1/admin/user/some-id/role"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
			require.NoError(t, err)
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

// The admin group uses real JWT verification so the middleware is
// exercised end to end rather than through a stub.
func TestAdminRoutes_RequireRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockAccountStore(ctrl)
	tokenService := service.NewTokenService("access-secret", "refresh-secret", 15, 10080)

	accountService := service.NewAccountService(mockStore, tokenService, nil,
		domain.SystemClock{}, domain.CryptoRand{}, testConfig())
	authHandler := handler.NewAuthHandler(accountService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/admin/users", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong role", func(t *testing.T) {
		accessToken, _, _, err := tokenService.Generate("user-id", "user@example.com", "user")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin role admitted", func(t *testing.T) {
		accessToken, _, _, err := tokenService.Generate("admin-id", "admin@example.com", "admin")
		require.NoError(t, err)

		now := time.Now()
		mockStore.EXPECT().ListAccounts(gomock.Any()).Return([]domain.Account{
			{ID: "user-id", Email: "user@example.com", Role: "user", Status: domain.StatusActive, CreatedAt: now, UpdatedAt: now},
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("update role rejects unknown role", func(t *testing.T) {
		accessToken, _, _, err := tokenService.Generate("admin-id", "admin@example.com", "admin")
		require.NoError(t, err)

		req := jsonRequest(t, "PATCH", "/api/v1/admin/user/user-id/role", dto.UpdateRoleInput{Role: "superuser"})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

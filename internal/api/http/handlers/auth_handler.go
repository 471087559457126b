package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snapcart/storefront/internal/api/dto"
	"github.com/snapcart/storefront/internal/auth"
	"github.com/snapcart/storefront/internal/domain"
	"github.com/snapcart/storefront/internal/service"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email and password required")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "role must be Buyer or Seller")
	}

	user, err := h.auth.Register(c.Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "account created successfully, please login",
		"data": fiber.Map{
			"user": user.Profile(),
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "logged in successfully",
		"data": fiber.Map{
			"user": user.Profile(),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	profile, err := h.auth.Profile(c.Context(), subject.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}

// UpdatePassword handles PUT /auth/update-password.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password required")
	}
	if len(req.NewPassword) < 6 {
		return fiber.NewError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	if err := h.auth.ChangePassword(c.Context(), subject.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated successfully"})
}

// DeleteAccount handles DELETE /auth/delete-account.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.auth.DeleteAccount(c.Context(), subject.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "account deleted successfully"})
}

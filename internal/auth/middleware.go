package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapcart/storefront/internal/domain"
	apperrors "github.com/snapcart/storefront/pkg/util"
)

const subjectKey = "auth_subject"

// Subject is the authenticated identity attached to a request context.
// It carries only what the token asserts; handlers that need the full
// account record fetch it themselves.
type Subject struct {
	ID   string
	Role domain.Role
}

// Middleware gates protected routes on a valid bearer token.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the gate.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. It never mutates
// stored data; rejection is scoped to the single request.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewNoCredential()
	}

	// Scheme marker is case-sensitive: exactly "Bearer" followed by whitespace.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return apperrors.NewTokenMalformed()
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return apperrors.NewTokenMalformed()
	}

	claims, err := m.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewTokenExpired()
		}
		return apperrors.NewTokenMalformed()
	}

	c.Locals(subjectKey, &Subject{ID: claims.Subject, Role: claims.Role})
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(c *fiber.Ctx) (*Subject, bool) {
	val := c.Locals(subjectKey)
	if val == nil {
		return nil, false
	}
	subject, ok := val.(*Subject)
	return subject, ok
}

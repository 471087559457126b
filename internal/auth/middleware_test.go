package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/snapcart/storefront/internal/api/http"
	"github.com/snapcart/storefront/internal/auth"
	"github.com/snapcart/storefront/internal/domain"
	"github.com/snapcart/storefront/internal/observability"
)

const gateTestSecret = "gate-test-secret"

func newGateApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager(gateTestSecret, 60)
	mw := auth.NewMiddleware(tm)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		subject, ok := auth.SubjectFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"subject_id": subject.ID, "role": subject.Role})
	})
	return app, tm
}

// doProtected issues GET /protected and returns status, error code (if any)
// and the echoed subject id (if authenticated).
func doProtected(t *testing.T, app *fiber.App, authHeader string) (status int, errCode, subjectID string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		SubjectID string `json:"subject_id"`
		Error     *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	if body.Error != nil {
		errCode = body.Error.Code
	}
	return resp.StatusCode, errCode, body.SubjectID
}

func TestGateMissingHeader(t *testing.T) {
	app, _ := newGateApp(t)

	status, code, _ := doProtected(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "NO_CREDENTIAL", code)
}

func TestGateEmptyRemainder(t *testing.T) {
	app, _ := newGateApp(t)

	status, code, _ := doProtected(t, app, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_MALFORMED", code)
}

func TestGateSchemeIsCaseSensitive(t *testing.T) {
	app, tm := newGateApp(t)
	token, _, err := tm.Issue("user-1", domain.RoleBuyer)
	require.NoError(t, err)

	status, code, _ := doProtected(t, app, "bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_MALFORMED", code)
}

func TestGateWrongScheme(t *testing.T) {
	app, tm := newGateApp(t)
	token, _, err := tm.Issue("user-1", domain.RoleBuyer)
	require.NoError(t, err)

	status, code, _ := doProtected(t, app, "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_MALFORMED", code)
}

func TestGateExpiredToken(t *testing.T) {
	app, _ := newGateApp(t)

	claims := &auth.Claims{
		Role: domain.RoleBuyer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(gateTestSecret))
	require.NoError(t, err)

	status, code, _ := doProtected(t, app, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_EXPIRED", code)
}

func TestGateValidToken(t *testing.T) {
	app, tm := newGateApp(t)
	token, _, err := tm.Issue("user-42", domain.RoleSeller)
	require.NoError(t, err)

	status, code, subjectID := doProtected(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, code)
	assert.Equal(t, "user-42", subjectID)
}

func TestRequireRole(t *testing.T) {
	tm := auth.NewTokenManager(gateTestSecret, 60)
	mw := auth.NewMiddleware(tm)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Post("/sellers-only", mw.Handle,
		auth.RequireRole(domain.RoleSeller, domain.RolePlatformAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusCreated) })

	buyerToken, _, err := tm.Issue("buyer-1", domain.RoleBuyer)
	require.NoError(t, err)
	sellerToken, _, err := tm.Issue("seller-1", domain.RoleSeller)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sellers-only", nil)
	req.Header.Set("Authorization", "Bearer "+buyerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/sellers-only", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapcart/storefront/internal/domain"
)

const testSecret = "test-signing-key"

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	subjects := []string{"user-1", "a2c3e9d0-0000-0000-0000-000000000001", "x"}
	for _, subjectID := range subjects {
		token, exp, err := tm.Issue(subjectID, domain.RoleBuyer)
		require.NoError(t, err)
		assert.True(t, exp.After(time.Now()))

		claims, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, subjectID, claims.Subject)
		assert.Equal(t, domain.RoleBuyer, claims.Role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	// Sign a well-formed token whose expiry has already passed.
	claims := &Claims{
		Role: domain.RoleSeller,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Verify(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	cases := map[string]string{
		"garbage":       "not-a-token",
		"empty":         "",
		"wrong shape":   "a.b",
		"junk segments": "aaaa.bbbb.cccc",
	}
	for name, tokenStr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Verify(tokenStr)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewTokenManager("another-secret", 60)
	token, _, err := other.Issue("user-1", domain.RoleBuyer)
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, 60)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsWrongSigningMethod(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

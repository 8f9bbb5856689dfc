package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyExtractsClaims(t *testing.T) {
	v := NewJWTVerifier("secret")
	token := signToken(t, "secret", jwt.MapClaims{
		"userId": "u1",
		"email":  "u1@example.com",
		"role":   RoleUser,
	})

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewJWTVerifier("secret")
	token := signToken(t, "other-secret", jwt.MapClaims{"userId": "u1"})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewJWTVerifier("secret")

	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresUserID(t *testing.T) {
	v := NewJWTVerifier("secret")
	token := signToken(t, "secret", jwt.MapClaims{"role": RoleUser})

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

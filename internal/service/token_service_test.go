package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studentools-api/internal/models"
	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

func signTestToken(t *testing.T, method jwt.SigningMethod, key interface{}, issuer string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleAdmin,
		Email:  "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService("secret", "studentools")
	token := signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), "studentools", time.Now().Add(time.Hour))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewTokenService("secret", "studentools")

	cases := map[string]string{
		"wrong secret":  signTestToken(t, jwt.SigningMethodHS256, []byte("other"), "studentools", time.Now().Add(time.Hour)),
		"expired":       signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), "studentools", time.Now().Add(-time.Minute)),
		"wrong issuer":  signTestToken(t, jwt.SigningMethodHS256, []byte("secret"), "elsewhere", time.Now().Add(time.Hour)),
		"wrong method":  signTestToken(t, jwt.SigningMethodHS512, []byte("secret"), "studentools", time.Now().Add(time.Hour)),
		"garbage token": "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestTokenServiceWithoutSecret(t *testing.T) {
	_, err := NewTokenService("", "").ValidateToken("anything")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

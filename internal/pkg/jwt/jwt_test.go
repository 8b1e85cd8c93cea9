package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret-key"
	testAccessExp  = "15m"
	testRefreshExp = "168h"
)

func newTestJWTService() Service {
	return NewJWTService(testSecret, testAccessExp, testRefreshExp)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	employeeID := "emp-1"
	token, expiresAt, err := svc.GenerateAccessToken("user-1", "dana@example.com", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "dana@example.com", claims["email"])
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_NilEmployeeID(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateAccessToken("user-1", "admin@example.com", nil, user.RoleAdmin)
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Nil(t, claims["employee_id"])
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService(testSecret, "not-a-duration", testRefreshExp)

	_, _, err := svc.GenerateAccessToken("user-1", "dana@example.com", nil, user.RoleEmployee)
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Add(167*time.Hour).Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims["type"])
}

func TestSSEToken_Roundtrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateAccessToken("user-1", "dana@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateSSEToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenRevocation(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateAccessToken("user-1", "dana@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newTestJWTService()
	expiresAt := time.Now().Add(time.Hour).Unix()

	cookie := svc.RefreshTokenCookie("some-token", expiresAt)

	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "some-token", cookie.Value)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, time.Unix(expiresAt, 0), cookie.Expires)
}

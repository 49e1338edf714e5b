package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, nil, AuthConfig{
		AccessTokenSecret: "jwt-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "academics-api",
		ClientID:          "portal",
		ClientSecretHash:  string(hash),
	})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, models.RoleDecoder, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "portal", claims.ClientID)
	assert.Equal(t, models.RoleDecoder, claims.Role)
	assert.Equal(t, "academics-api", claims.Issuer)

	resp, err = svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "s3cret-pass", Scope: models.ScopeRead})
	require.NoError(t, err)
	assert.Equal(t, models.RoleReader, resp.Role)
}

func TestAuthServiceRejectsBadCredentials(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "wrong-pass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "other", ClientSecret: "s3cret-pass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "short"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "s3cret-pass", Scope: "admin"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	unconfigured := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "x"})
	_, err = unconfigured.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "s3cret-pass"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceValidateTokenFailures(t *testing.T) {
	svc := newAuthServiceForTest(t)
	resp, err := svc.IssueToken(context.Background(), models.TokenRequest{ClientID: "portal", ClientSecret: "s3cret-pass"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	svc.now = time.Now

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		ClientID: "portal",
		Role:     models.RoleDecoder,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Role:             models.RoleDecoder,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "academics-api"},
	})
	signed, err = wrongKey.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Role:             "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "academics-api"},
	})
	signed, err = noRole.SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"org-directory-service/internal/error/errs"
	"org-directory-service/internal/infrastructure/config"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "secret", APIKey: "key-1", JWTTTL: time.Hour})

	result, err := svc.ExchangeAPIKey("key-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "api-client", claims.Subject)
	assert.Equal(t, readScope, claims.Scope)
}

func TestJWTService_RejectsBadKeyAndForeignToken(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "secret", APIKey: "key-1"})

	_, err := svc.ExchangeAPIKey("wrong")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
	assert.False(t, svc.CheckAPIKey(""))

	other := NewJWTService(&config.Config{JWTSecretKey: "another", APIKey: "key-1"})
	token, _, err := other.GenerateToken("api-client")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	_, err = svc.ValidateToken("not-a-jwt")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "secret", JWTTTL: time.Minute}).(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken("api-client")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestJWTService_RejectsOtherScope(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "secret"})
	claims := &JWTClaims{
		Scope: "directory:write",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestJWTService_APIKeyModes(t *testing.T) {
	open := NewJWTService(&config.Config{JWTSecretKey: "secret"})
	assert.True(t, open.CheckAPIKey(""))

	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-key"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := NewJWTService(&config.Config{JWTSecretKey: "secret", APIKey: string(hash)})
	assert.True(t, hashed.CheckAPIKey("hashed-key"))
	assert.False(t, hashed.CheckAPIKey("other"))
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardswitch/internal/auth"
	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/repository"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	cards := repository.NewMemoryCardRepository()
	require.NoError(t, cards.Save(context.Background(), seededCard("5000.00")))
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(cards, jwtService, "admin", "admin")
}

func TestCustomerLogin(t *testing.T) {
	auths := newAuthFixture(t)

	assert.NoError(t, auths.CustomerLogin(context.Background(), testCardNumber, testPIN))

	err := auths.CustomerLogin(context.Background(), testCardNumber, "0000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPIN)

	err = auths.CustomerLogin(context.Background(), "4000111122223333", testPIN)
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
}

func TestAdminLogin(t *testing.T) {
	auths := newAuthFixture(t)

	token, err := auths.AdminLogin("admin", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.NewJWTService("test-secret").ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, "admin", claims.Username)

	_, err = auths.AdminLogin("admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = auths.AdminLogin("root", "admin")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

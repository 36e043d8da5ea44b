package service

import (
	"context"
	"crypto/subtle"

	"cardswitch/internal/auth"
	apperrors "cardswitch/internal/errors"
	"cardswitch/internal/hashutil"
	"cardswitch/internal/repository"
)

// AuthService verifies cardholder credentials and issues admin tokens.
type AuthService interface {
	// CustomerLogin verifies a card number and PIN against stored
	// digests. Returns ErrCardNotFound or ErrInvalidPIN on failure.
	CustomerLogin(ctx context.Context, cardNumber, pin string) error
	// AdminLogin checks the configured stub credentials and returns a
	// signed token on success.
	AdminLogin(username, password string) (string, error)
}

type authService struct {
	cards     repository.CardRepository
	jwt       *auth.JWTService
	adminUser string
	adminPass string
}

// NewAuthService creates the authentication service. Admin credentials
// are a configured stub, not a user store.
func NewAuthService(cards repository.CardRepository, jwt *auth.JWTService, adminUser, adminPass string) AuthService {
	return &authService{
		cards:     cards,
		jwt:       jwt,
		adminUser: adminUser,
		adminPass: adminPass,
	}
}

func (s *authService) CustomerLogin(ctx context.Context, cardNumber, pin string) error {
	card, err := s.cards.FindByHash(ctx, hashutil.Digest(cardNumber))
	if err != nil {
		return err
	}
	if hashutil.Digest(pin) != card.PINHash {
		return apperrors.ErrInvalidPIN
	}
	return nil
}

func (s *authService) AdminLogin(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	if !userOK || !passOK {
		return "", apperrors.ErrInvalidCredentials
	}
	return s.jwt.GenerateAdminToken(username)
}

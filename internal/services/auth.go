package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/security"
)

// badCredentials is the single message for a wrong password and an unknown
// email alike, so responses cannot be used to enumerate accounts.
const badCredentials = "incorrect email and/or password"

// AuthService verifies credentials and issues bearer tokens
type AuthService struct {
	users     UserStore
	jwtSecret string
	expiresIn time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string, expirationHours int) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		expiresIn: time.Duration(expirationHours) * time.Hour,
	}
}

// Authenticate verifies the credentials, re-evaluates the access-status
// policy and returns a signed token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", apperr.ErrUnauthorized, badCredentials)
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrUnauthorized, badCredentials)
	}

	// Status can change between logins, so the policy runs on every attempt.
	if err := security.CheckAccess(user.AccessStatus); err != nil {
		return "", err
	}

	return s.GenerateToken(user.Email)
}

// GenerateToken issues a signed, time-limited token with the email as
// subject.
func (s *AuthService) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the subject
// email.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// PrincipalFor resolves a token subject to the acting identity attached to
// the request context.
func (s *AuthService) PrincipalFor(ctx context.Context, email string) (security.Principal, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return security.Principal{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
		}
		return security.Principal{}, err
	}
	return security.Principal{ID: user.ID, Email: user.Email, Status: user.AccessStatus}, nil
}

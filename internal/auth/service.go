// Package auth issues and verifies bearer tokens for owner accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"paycoffee/server/internal/domain"
)

// Claims represents the JWT token claims.
type Claims struct {
	OwnerID string `json:"ownerId"`
	jwt.RegisteredClaims
}

// Service handles signup, login, and token verification.
type Service struct {
	owners    domain.OwnerRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewService creates a new auth service. tokenTTL bounds the lifetime of
// issued tokens; there is no refresh or revocation path.
func NewService(owners domain.OwnerRepository, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		owners:    owners,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// SignupParams carries the required signup fields.
type SignupParams struct {
	Email        string
	Password     string
	DisplayName  string
	PaymanPaytag string
}

// Signup registers a new owner and returns it with a fresh token.
// The email must not already be registered.
func (s *Service) Signup(ctx context.Context, p SignupParams) (*domain.Owner, string, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || p.Password == "" || strings.TrimSpace(p.DisplayName) == "" || strings.TrimSpace(p.PaymanPaytag) == "" {
		return nil, "", fmt.Errorf("auth: %w", errMissingFields)
	}

	if _, err := s.owners.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	owner, err := s.owners.Create(ctx, &domain.Owner{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(p.DisplayName),
		PaymanPaytag: strings.TrimSpace(p.PaymanPaytag),
	})
	if err != nil {
		return nil, "", fmt.Errorf("auth: create owner: %w", err)
	}

	token, err := s.IssueToken(owner.ID)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

// Login verifies the email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Owner, string, error) {
	owner, err := s.owners.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("auth: lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(owner.ID)
	if err != nil {
		return nil, "", err
	}
	return owner, token, nil
}

// IssueToken signs a bearer token for the given owner id.
func (s *Service) IssueToken(ownerID string) (string, error) {
	now := time.Now()
	claims := Claims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "paycoffee",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a token's signature and expiry and loads the owner it
// names. A token for a deleted account is rejected as unauthorized.
func (s *Service) Verify(ctx context.Context, tokenStr string) (*domain.Owner, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	owner, err := s.owners.GetByID(ctx, claims.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth: load owner: %w", err)
	}
	return owner, nil
}

var errMissingFields = errors.New("all fields are required")

// IsMissingFields reports whether the error came from incomplete signup input.
func IsMissingFields(err error) bool {
	return errors.Is(err, errMissingFields)
}

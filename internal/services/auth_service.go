package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"
	appErr "hyperdrive/pkg/errors"

	"github.com/dgrijalva/jwt-go"
)

// AuthService issues and verifies signed bearer tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// IssueToken signs an HS256 token whose subject is the user's ID.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
// Tokens without an exp claim are rejected.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return nil, fmt.Errorf("invalid token: missing or expired exp")
	}
	return claims, nil
}

// UserFromToken validates tokenString and loads the user named by its subject.
func (s *AuthService) UserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnauthorized, "Not authenticated")
	}
	id, err := subject(claims)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnauthorized, "Not authenticated")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnauthorized, "Not authenticated")
	}
	return user, nil
}

// subject reads "sub" as a user ID. Issuers may encode it as a string or a number.
func subject(claims jwt.MapClaims) (uint, error) {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 0)
		if err != nil {
			return 0, fmt.Errorf("invalid sub claim %q", sub)
		}
		return uint(id), nil
	case float64:
		if sub < 0 || sub != float64(uint(sub)) {
			return 0, fmt.Errorf("invalid sub claim %v", sub)
		}
		return uint(sub), nil
	default:
		return 0, fmt.Errorf("missing sub claim")
	}
}

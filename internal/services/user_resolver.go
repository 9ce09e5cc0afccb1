package services

import (
	"context"
	"strings"

	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"
	appErr "hyperdrive/pkg/errors"

	"go.uber.org/zap"
)

// DevUserEmail is the address of the user bootstrapped by DevUserResolver.
const DevUserEmail = "dev@example.com"

// UserResolver turns an Authorization header value into the acting user.
type UserResolver interface {
	Resolve(ctx context.Context, authorization string) (*models.User, error)
}

// TokenUserResolver accepts only valid bearer tokens.
type TokenUserResolver struct {
	auth *AuthService
}

// NewTokenUserResolver creates a resolver backed by auth.
func NewTokenUserResolver(auth *AuthService) *TokenUserResolver {
	return &TokenUserResolver{auth: auth}
}

// Resolve returns the token's user or an unauthorized error.
func (r *TokenUserResolver) Resolve(ctx context.Context, authorization string) (*models.User, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, appErr.New(appErr.CodeUnauthorized, "Not authenticated")
	}
	return r.auth.UserFromToken(ctx, token)
}

// DevUserResolver is INSECURE and exists for local development only. When no
// valid token is presented it acts as the first user in the store, creating
// one if the store is empty. It is not a security boundary.
type DevUserResolver struct {
	tokens *TokenUserResolver
	users  repositories.UserRepository
	log    *zap.Logger
}

// NewDevUserResolver creates the development fallback resolver.
func NewDevUserResolver(auth *AuthService, users repositories.UserRepository, log *zap.Logger) *DevUserResolver {
	return &DevUserResolver{tokens: NewTokenUserResolver(auth), users: users, log: log}
}

// Resolve never fails for lack of credentials.
func (r *DevUserResolver) Resolve(ctx context.Context, authorization string) (*models.User, error) {
	if user, err := r.tokens.Resolve(ctx, authorization); err == nil {
		return user, nil
	}

	user, err := r.users.First(ctx)
	if err == nil {
		return user, nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	email := DevUserEmail
	user = &models.User{Email: &email, Role: models.RoleDeveloper}
	if err := r.users.Create(ctx, user); err != nil {
		// Another request may have bootstrapped concurrently.
		r.log.Debug("dev user bootstrap lost race", zap.Error(err))
		return r.users.First(ctx)
	}
	r.log.Warn("bootstrapped development user", zap.Uint("user_id", user.ID))
	return user, nil
}

// NewUserResolver picks the insecure development resolver only when
// development is true.
func NewUserResolver(development bool, auth *AuthService, users repositories.UserRepository, log *zap.Logger) UserResolver {
	if development {
		log.Warn("INSECURE development auth enabled: unauthenticated requests act as the first user")
		return NewDevUserResolver(auth, users, log)
	}
	return NewTokenUserResolver(auth)
}

func bearerToken(authorization string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"
	"hyperdrive/internal/services"
	appErr "hyperdrive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenUserResolver(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryUserRepository()
	user := &models.User{}
	require.NoError(t, users.Create(ctx, user))

	auth := services.NewAuthService(users, testJWTSecret, time.Hour)
	resolver := services.NewTokenUserResolver(auth)
	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, "bearer " + token, "  BEARER   " + token} {
		got, err := resolver.Resolve(ctx, header)
		require.NoError(t, err, header)
		assert.Equal(t, user.ID, got.ID)
	}

	for _, header := range []string{"", token, "Basic " + token, "Bearer ", "Bearer not-a-jwt"} {
		_, err := resolver.Resolve(ctx, header)
		assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized), "header %q", header)
	}
}

func TestDevUserResolver_BootstrapsThenReuses(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryUserRepository()
	auth := services.NewAuthService(users, testJWTSecret, time.Hour)
	resolver := services.NewDevUserResolver(auth, users, zap.NewNop())

	first, err := resolver.Resolve(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, first.Email)
	assert.Equal(t, services.DevUserEmail, *first.Email)
	assert.Equal(t, models.RoleDeveloper, first.Role)

	again, err := resolver.Resolve(ctx, "Bearer garbage")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// A valid token for another user wins over the fallback.
	other := &models.User{}
	require.NoError(t, users.Create(ctx, other))
	token, err := auth.IssueToken(other)
	require.NoError(t, err)
	got, err := resolver.Resolve(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)
}

func TestDevUserResolver_ConcurrentBootstrap(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryUserRepository()
	auth := services.NewAuthService(users, testJWTSecret, time.Hour)
	resolver := services.NewDevUserResolver(auth, users, zap.NewNop())

	ids := make(chan uint, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := resolver.Resolve(ctx, "")
			if assert.NoError(t, err) {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first, err := users.First(ctx)
	require.NoError(t, err)
	for id := range ids {
		assert.Equal(t, first.ID, id)
	}
}

func TestDevUserResolver_RereadsAfterLostRace(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	auth := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	resolver := services.NewDevUserResolver(auth, mockRepo, zap.NewNop())
	winner := &models.User{ID: 1}

	mockRepo.On("First", mock.Anything).Return(nil, appErr.NotFound()).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(appErr.New(appErr.CodeConflict, "user already exists")).Once()
	mockRepo.On("First", mock.Anything).Return(winner, nil).Once()

	got, err := resolver.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, winner, got)
	mockRepo.AssertExpectations(t)
}

func TestNewUserResolverSelectsByEnvironment(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	auth := services.NewAuthService(users, testJWTSecret, time.Hour)

	assert.IsType(t, &services.DevUserResolver{}, services.NewUserResolver(true, auth, users, zap.NewNop()))
	assert.IsType(t, &services.TokenUserResolver{}, services.NewUserResolver(false, auth, users, zap.NewNop()))

	_, err := services.NewUserResolver(false, auth, users, zap.NewNop()).Resolve(context.Background(), "")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

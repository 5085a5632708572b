package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/security"
)

func testTokenManager() security.TokenManager {
	return security.NewTokenManager("test-secret-test-secret-test-secret!", 15*time.Minute, time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	user := &domain.User{
		ID:           1,
		Email:        "op@test.com",
		PasswordHash: string(hash),
		Name:         "Operator",
		Role:         domain.UserRoleOperator,
		Active:       true,
	}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		userRepo.On("GetByEmail", ctx, "op@test.com").Return(user, nil)

		access, refresh, got, err := svc.Login(ctx, "op@test.com", "s3cret")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		userRepo.On("GetByEmail", ctx, "op@test.com").Return(user, nil)

		_, _, _, err := svc.Login(ctx, "op@test.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		userRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, domain.ErrNotFound)

		_, _, _, err := svc.Login(ctx, "ghost@test.com", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Inactive user", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		off := *user
		off.Active = false
		userRepo.On("GetByEmail", ctx, "op@test.com").Return(&off, nil)

		_, _, _, err := svc.Login(ctx, "op@test.com", "s3cret")
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	tm := testTokenManager()
	user := &domain.User{ID: 1, Email: "op@test.com", Role: domain.UserRoleOperator, Active: true}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tm)
		userRepo.On("GetByID", ctx, int32(1)).Return(user, nil)

		refresh, err := tm.GenerateRefreshToken(1, "op@test.com")
		assert.NoError(t, err)

		access, newRefresh, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("Access token rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), tm)
		access, err := tm.GenerateAccessToken(1, "op@test.com", "operator")
		assert.NoError(t, err)

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), tm)
		_, _, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, testTokenManager())
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(ctx, "New Operator", "new@test.com", "s3cret", domain.UserRoleOperator)
	assert.NoError(t, err)
	assert.True(t, user.Active)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the admin when missing", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		userRepo.On("GetByEmail", ctx, "admin@test.com").Return(nil, domain.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.Equal(t, domain.UserRoleAdmin, u.Role)
		}).Return(nil)

		assert.NoError(t, svc.EnsureAdmin(ctx, "admin@test.com", "s3cret"))
		userRepo.AssertExpectations(t)
	})

	t.Run("No-op when the admin already exists", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, testTokenManager())
		userRepo.On("GetByEmail", ctx, "admin@test.com").
			Return(&domain.User{ID: 1, Email: "admin@test.com", Role: domain.UserRoleAdmin, Active: true}, nil)

		assert.NoError(t, svc.EnsureAdmin(ctx, "admin@test.com", "s3cret"))
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"mural/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func nowPtr() *time.Time {
	now := time.Now().Add(time.Hour)
	return &now
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByResetTokenFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByResetTokenFn(ctx, token)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByResetTokenFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateFn:          func(_ context.Context, _ *models.User) error { return nil },
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})

	t.Run("updates provided fields only", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, DisplayName: "Old Name", Bio: "old bio"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: "new bio"})
		require.NoError(t, err)
		assert.Equal(t, "new bio", saved.Bio)
		assert.Equal(t, "Old Name", saved.DisplayName)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse12!"), bcrypt.MinCost)
	require.NoError(t, err)

	userWithHash := func() *userRepoStub {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Password: string(hash)}, nil
		}
		return repo
	}

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(userWithHash())
		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          1,
			CurrentPassword: "WrongPassword12!",
			NewPassword:     "NewSecurePass12!",
		})
		assertUnauthorizedError(t, err)
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(userWithHash())
		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          1,
			CurrentPassword: "CorrectHorse12!",
			NewPassword:     "short",
		})
		assertValidationError(t, err)
	})

	t.Run("success rehashes and clears reset token", func(t *testing.T) {
		t.Parallel()
		expiry := nowPtr()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{
				ID:                  id,
				Password:            string(hash),
				PasswordResetToken:  "stale-token",
				PasswordResetExpiry: expiry,
			}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          1,
			CurrentPassword: "CorrectHorse12!",
			NewPassword:     "NewSecurePass12!",
		})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("NewSecurePass12!")))
		assert.Empty(t, saved.PasswordResetToken)
		assert.Nil(t, saved.PasswordResetExpiry)
	})
}

func TestUserService_SetModerator(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(repo)
	user, err := svc.SetModerator(context.Background(), 5, true)
	require.NoError(t, err)
	assert.True(t, user.IsModerator)
	assert.True(t, saved.IsModerator)
}

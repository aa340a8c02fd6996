package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizhippo/quiz-service/internal/auth"
	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/validator"
)

func newAuthFixture(t *testing.T) (*MockRepository, AuthService) {
	t.Helper()
	repo := NewMockRepository()
	tokens, err := auth.NewTokenManager("test-secret-that-is-long-enough", 0)
	assert.NoError(t, err)
	return repo, NewAuthService(repo, tokens, validator.New(), testLogger())
}

func TestAuthService_Register(t *testing.T) {
	repo, svc := newAuthFixture(t)

	repo.user.On("ExistsByUsername", mock.Anything, "hippofan").Return(false, nil)
	repo.user.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 7
		}).
		Return(nil)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "hippofan",
		Password: "correct-horse",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	repo, svc := newAuthFixture(t)

	repo.user.On("ExistsByUsername", mock.Anything, "hippofan").Return(true, nil)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "hippofan",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_RegisterRejectsShortPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "hippofan",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	repo, svc := newAuthFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)
	repo.user.On("GetByUsername", mock.Anything, "hippofan").
		Return(&models.User{ID: 7, Username: "hippofan", PasswordHash: string(hash)}, nil)

	token, user, err := svc.Login(context.Background(), &LoginRequest{
		Username: "hippofan",
		Password: "correct-horse",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo, svc := newAuthFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	assert.NoError(t, err)
	repo.user.On("GetByUsername", mock.Anything, "hippofan").
		Return(&models.User{ID: 7, Username: "hippofan", PasswordHash: string(hash)}, nil)

	_, _, err = svc.Login(context.Background(), &LoginRequest{
		Username: "hippofan",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	repo, svc := newAuthFixture(t)

	repo.user.On("GetByUsername", mock.Anything, "ghost").Return(nil, gormNotFound())

	_, _, err := svc.Login(context.Background(), &LoginRequest{
		Username: "ghost",
		Password: "whatever1",
	})
	// Unknown user and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetProfileDefaultsWhenMissing(t *testing.T) {
	repo, svc := newAuthFixture(t)

	repo.user.On("GetProfile", mock.Anything, uint(7)).Return(nil, gormNotFound())

	profile, err := svc.GetProfile(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), profile.UserID)
	assert.False(t, profile.LightMode)
}

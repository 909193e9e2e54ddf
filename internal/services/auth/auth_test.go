package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userUID, name, email, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, userUID, name, email, passwordHash)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func testMaker() jwt.Maker {
	return jwt.NewMaker("test_secret_key", 15*time.Minute)
}

func activeUser(t *testing.T) *models.User {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	return &models.User{
		UID:          "uid-1",
		Name:         "Test Student",
		Email:        "student@example.com",
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Status:       models.UserStatusActive,
	}
}

func TestService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleStudent &&
			u.Status == models.UserStatusActive &&
			u.PasswordHash != "secret123"
	})).Return("uid-1", nil)
	repo.On("GetUser", mock.Anything, "uid-1").Return(activeUser(t), nil)

	svc := New(repo, testMaker())
	token, user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Test Student",
		Email:    "student@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "uid-1", user.UID)
	repo.AssertExpectations(t)
}

func TestService_Register_EmailTaken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("RegisterUser", mock.Anything, mock.Anything).Return("", repository.ErrEmailTaken)

	svc := New(repo, testMaker())
	_, _, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Test Student",
		Email:    "student@example.com",
		Password: "secret123",
	})

	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(t *testing.T, m *MockUserRepository)
		wantErr   error
	}{
		{
			name:     "successful login",
			password: "secret123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").Return(activeUser(t), nil)
			},
		},
		{
			name:     "wrong password",
			password: "wrongpass",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").Return(activeUser(t), nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "secret123",
			setupMock: func(_ *testing.T, m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").
					Return(nil, repository.ErrUserNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			password: "secret123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				u := activeUser(t)
				u.Status = models.UserStatusInactive
				m.On("GetUserByEmail", mock.Anything, "student@example.com").Return(u, nil)
			},
			wantErr: ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(t, repo)

			svc := New(repo, testMaker())
			token, user, err := svc.Login(context.Background(), models.LoginRequest{
				Email:    "student@example.com",
				Password: tt.password,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "uid-1", user.UID)
			}
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUser", mock.Anything, "uid-1").Return(activeUser(t), nil)

	svc := New(repo, testMaker())
	token, err := testMaker().GenerateToken("uid-1", models.RoleStudent)
	require.NoError(t, err)

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.UID)

	_, err = svc.ValidateToken(context.Background(), "garbage.token.value")
	assert.Error(t, err)
}

func TestService_ValidateToken_InactiveAccount(t *testing.T) {
	repo := new(MockUserRepository)
	inactive := activeUser(t)
	inactive.Status = models.UserStatusInactive
	repo.On("GetUser", mock.Anything, "uid-1").Return(inactive, nil)

	svc := New(repo, testMaker())
	token, err := testMaker().GenerateToken("uid-1", models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestService_UpdateProfile_HashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("UpdateProfile", mock.Anything, "uid-1", "New Name", "", mock.MatchedBy(func(hash string) bool {
		return hash != "" && hash != "newsecret"
	})).Return(activeUser(t), nil)

	svc := New(repo, testMaker())
	_, err := svc.UpdateProfile(context.Background(), "uid-1", models.UpdateProfileRequest{
		Name:     "New Name",
		Password: "newsecret",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

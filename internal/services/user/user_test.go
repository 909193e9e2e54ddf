package user

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, userUID string, req models.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteUser(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestService_Create_Defaults(t *testing.T) {
	repo := new(MockRepository)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleStudent &&
			u.Status == models.UserStatusActive &&
			u.PasswordHash != "" && u.PasswordHash != "default123"
	})).Return("uid-2", nil)
	repo.On("GetUser", mock.Anything, "uid-2").Return(&models.User{UID: "uid-2"}, nil)

	svc := New(repo, testLogger())
	got, err := svc.Create(context.Background(), models.CreateUserRequest{
		Name:  "New Student",
		Email: "new@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-2", got.UID)
	repo.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		callerUID string
		targetUID string
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name:      "successful delete",
			callerUID: "uid-admin",
			targetUID: "uid-2",
			setupMock: func(m *MockRepository) {
				m.On("DeleteUser", mock.Anything, "uid-2").Return(1, nil)
			},
		},
		{
			name:      "self deletion rejected before storage",
			callerUID: "uid-admin",
			targetUID: "uid-admin",
			setupMock: func(_ *MockRepository) {},
			wantErr:   ErrSelfDeletion,
		},
		{
			name:      "missing user",
			callerUID: "uid-admin",
			targetUID: "uid-404",
			setupMock: func(m *MockRepository) {
				m.On("DeleteUser", mock.Anything, "uid-404").Return(0, nil)
			},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)

			svc := New(repo, testLogger())
			err := svc.Delete(context.Background(), tt.callerUID, tt.targetUID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

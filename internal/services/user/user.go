// Package user содержит бизнес-логику администрирования пользователей.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/course-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// Ошибки администрирования пользователей.
var (
	ErrUserNotFound = repository.ErrUserNotFound
	ErrEmailTaken   = repository.ErrEmailTaken
	// ErrSelfDeletion администратор не может удалить собственную учетную запись.
	ErrSelfDeletion = errors.New("cannot delete your own account")
)

// Пароль по умолчанию для созданных администратором учетных записей.
const defaultPassword = "default123"

// Repository определяет методы хранилища для администрирования пользователей.
type Repository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	UpdateUser(ctx context.Context, userUID string, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userUID string) (int, error)
}

// Service реализует операции админки над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает пользователей по фильтру админки.
func (s *Service) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, filter)
}

// Read возвращает пользователя по UID.
func (s *Service) Read(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// Create создает пользователя с ролью и статусом по умолчанию.
// Отсутствующий пароль заменяется временным паролем по умолчанию.
func (s *Service) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	rawPassword := req.Password
	if rawPassword == "" {
		rawPassword = defaultPassword
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		Status:       req.Status,
		Avatar:       "#7c3aed",
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new user", slog.String("uid", uid), slog.String("role", user.Role))
	return s.repo.GetUser(ctx, uid)
}

// Update обновляет разрешенные администратору поля пользователя.
func (s *Service) Update(ctx context.Context, userUID string, req models.UpdateUserRequest) (*models.User, error) {
	return s.repo.UpdateUser(ctx, userUID, req)
}

// Delete удаляет пользователя. Удаление собственной учетной записи запрещено.
func (s *Service) Delete(ctx context.Context, callerUID, userUID string) error {
	if callerUID == userUID {
		return ErrSelfDeletion
	}
	count, err := s.repo.DeleteUser(ctx, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("deleted user", slog.String("uid", userUID))
	return nil
}

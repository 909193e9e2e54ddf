// Package auth содержит логику бизнес-уровня для работы с пользователями
// и аутентификацией: регистрация, вход, валидация токена и профиль.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// Ошибки аутентификации и регистрации.
var (
	ErrEmailTaken         = repository.ErrEmailTaken
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUser возвращает пользователя по UID вместе с набором купленных курсов.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile обновляет имя, email и хэш пароля собственного профиля.
	UpdateProfile(ctx context.Context, userUID, name, email, passwordHash string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью student, затем сразу выдает токен.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (string, *models.User, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", nil, err
	}
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleStudent,
		Status:       models.UserStatusActive,
		Avatar:       "#7c3aed",
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", nil, err
	}

	created, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(created.UID, created.Role)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Деактивированная учетная запись не допускается к входу.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusInactive {
		return "", nil, ErrAccountInactive
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT, загружает пользователя и отклоняет
// деактивированные учетные записи. Используется middleware.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusInactive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// Me возвращает профиль текущего пользователя.
func (s *Service) Me(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile обновляет разрешенные поля собственного профиля.
// Пароль хэшируется; пустые поля остаются без изменений.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error) {
	var hashed string
	if req.Password != "" {
		var err error
		hashed, err = password.GetHash(req.Password)
		if err != nil {
			return nil, err
		}
	}
	return s.users.UpdateProfile(ctx, userUID, req.Name, req.Email, hashed)
}

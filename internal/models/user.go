// Package models содержит доменные структуры маркетплейса курсов,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей. Каталог и контент могут менять admin и instructor,
// управление пользователями и заказами — только admin.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// Статусы учетной записи.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User представляет пользователя маркетплейса.
//
// PurchasedCourses — авторитетный набор курсов, к которым у пользователя
// есть доступ. Пополняется только при переводе заказа в статус completed,
// никогда — при создании заказа.
type User struct {
	UID              string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	Status           string    `json:"status"`
	Avatar           string    `json:"avatar"`
	PurchasedCourses []int64   `json:"purchasedCourses"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RegisterRequest данные регистрации нового пользователя.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest данные входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest изменяемые поля собственного профиля.
// Разрешены только имя, email и пароль; роль и статус недоступны.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// CreateUserRequest данные создания пользователя администратором.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor admin"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateUserRequest изменяемые администратором поля пользователя.
type UpdateUserRequest struct {
	Name   string `json:"name" validate:"omitempty"`
	Email  string `json:"email" validate:"omitempty,email"`
	Role   string `json:"role" validate:"omitempty,oneof=student instructor admin"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserFilter фильтр списка пользователей для админки.
type UserFilter struct {
	Role   string
	Search string
}

// Package repository реализует хранилище данных на основе PostgreSQL
// для маркетплейса курсов: пользователи, каталог, заказы, права доступа
// к курсам и конфигурационные документы.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисный слой пробрасывает их до границы API,
// где они отображаются в HTTP-статусы.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmailTaken     = errors.New("email already exists")

	// ErrAlreadyEntitled пользователь уже имеет доступ к курсу.
	ErrAlreadyEntitled = errors.New("course already purchased")
	// ErrDuplicatePendingOrder у пары (пользователь, курс) уже есть
	// незавершенный заказ; частичный уникальный индекс закрывает гонку
	// одновременных покупок.
	ErrDuplicatePendingOrder = errors.New("pending order for this course already exists")
	// ErrIllegalTransition запрошенный переход статуса запрещен таблицей переходов.
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'orders'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table orders missing or query error: %w", err)
	}
	return nil
}

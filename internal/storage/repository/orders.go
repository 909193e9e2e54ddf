package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/orderstate"
)

const orderColumns = `id, order_id, customer, customer_email, user_uid, course_title,
			      course_id, amount, payment, payment_phone, transaction_id, status, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var status string
	if err := row.Scan(&o.ID, &o.OrderID, &o.Customer, &o.CustomerEmail, &o.UserUID,
		&o.CourseTitle, &o.CourseID, &o.Amount, &o.Payment, &o.PaymentPhone,
		&o.TransactionID, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = orderstate.Status(status)
	return &o, nil
}

// CreateOrder выполняет покупку курса одной транзакцией: проверка прав,
// вставка заказа со снимком данных покупателя и курса и, если включен
// учет на создании, инкремент счетчиков курса.
//
// Возвращает ErrCourseNotFound, если курс не существует, ErrAlreadyEntitled,
// если доступ уже выдан, и ErrDuplicatePendingOrder при одновременной
// повторной покупке той же пары (пользователь, курс).
func (s *Storage) CreateOrder(ctx context.Context, order models.Order, bumpCounters bool) (*models.Order, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var courseTitle string
	var coursePrice int64
	query := `SELECT title, price FROM courses WHERE id = $1`
	if err = tx.QueryRowContext(ctx, query, order.CourseID).Scan(&courseTitle, &coursePrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var entitled bool
	query = `SELECT EXISTS (SELECT 1 FROM entitlements WHERE user_uid = $1 AND course_id = $2)`
	if err = tx.QueryRowContext(ctx, query, order.UserUID, order.CourseID).Scan(&entitled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entitled {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyEntitled)
	}

	query = `INSERT INTO orders (order_id, customer, customer_email, user_uid, course_title,
			      course_id, amount, payment, payment_phone, transaction_id, status)
			  VALUES ('ORD-' || lpad(nextval('order_number_seq')::text, 4, '0'),
			      $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + orderColumns
	created, err := scanOrder(tx.QueryRowContext(ctx, query,
		order.Customer, order.CustomerEmail, order.UserUID, courseTitle, order.CourseID,
		coursePrice, order.Payment, order.PaymentPhone, order.TransactionID,
		string(orderstate.StatusPending)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicatePendingOrder)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if bumpCounters {
		query = `UPDATE courses SET students = students + 1, revenue = revenue + $1 WHERE id = $2`
		if _, err = tx.ExecContext(ctx, query, coursePrice, order.CourseID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ReadOrder возвращает заказ по его публичному номеру (вида ORD-2848).
func (s *Storage) ReadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`
	result, err := scanOrder(s.DB.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOrders возвращает заказы для админки с фильтром по статусу и
// поиском по номеру заказа или имени покупателя, новые первыми.
func (s *Storage) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE ($1 = '' OR status = $1)
			    AND ($2 = '' OR order_id ILIKE '%' || $2 || '%' OR customer ILIKE '%' || $2 || '%')
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, filter.Status, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		item, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		item, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TransitionOrder переводит заказ в новый статус одной транзакцией.
//
// Заказ блокируется на время транзакции. Повтор текущего статуса — no-op
// (changed=false); запрещенный переход — ErrIllegalTransition. На переходе
// в completed права на курс выдаются идемпотентно (ON CONFLICT DO NOTHING),
// и, если учет выручки настроен на завершение, счетчики курса растут здесь,
// на сумму из снимка заказа. Возврат (refunded) меняет только статус:
// права не отзываются.
func (s *Storage) TransitionOrder(ctx context.Context, orderID string, to orderstate.Status, bumpCounters bool) (*models.Order, bool, error) {
	const op = "storage.TransitionOrder"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE`
	current, err := scanOrder(tx.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if current.Status == to {
		return current, false, nil
	}
	if !orderstate.CanTransition(current.Status, to) {
		return nil, false, fmt.Errorf("%s: %s -> %s: %w", op, current.Status, to, ErrIllegalTransition)
	}

	query = `UPDATE orders SET status = $1 WHERE order_id = $2`
	if _, err = tx.ExecContext(ctx, query, string(to), orderID); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if to == orderstate.StatusCompleted {
		query = `INSERT INTO entitlements (user_uid, course_id)
				  VALUES ($1, $2)
				  ON CONFLICT (user_uid, course_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, query, current.UserUID, current.CourseID); err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}

		if bumpCounters {
			query = `UPDATE courses SET students = students + 1, revenue = revenue + $1 WHERE id = $2`
			if _, err = tx.ExecContext(ctx, query, current.Amount, current.CourseID); err != nil {
				return nil, false, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	current.Status = to
	return current, true, nil
}

// Package order содержит бизнес-логику покупки курсов: машину состояний
// заказа и протокол выдачи прав доступа.
//
// Заказ создается в статусе pending; права на курс выдаются только при
// явном переводе заказа в completed привилегированным пользователем.
// Перевод в refunded меняет лишь статус — автоматический отзыв прав
// не реализован, это зафиксированное поведение исходной системы.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-marketplace/internal/cache"
	"github.com/magabrotheeeer/course-marketplace/internal/events"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/txn"
	"github.com/magabrotheeeer/course-marketplace/internal/metrics"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/orderstate"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// Ошибки уровня сервиса, доступные обработчикам для отображения в HTTP-статусы.
var (
	ErrCourseNotFound        = repository.ErrCourseNotFound
	ErrOrderNotFound         = repository.ErrOrderNotFound
	ErrAlreadyEntitled       = repository.ErrAlreadyEntitled
	ErrDuplicatePendingOrder = repository.ErrDuplicatePendingOrder
	ErrIllegalTransition     = repository.ErrIllegalTransition
)

// Repository определяет методы хранилища, нужные сервису заказов.
type Repository interface {
	// CreateOrder атомарно проверяет права, создает заказ и при
	// необходимости увеличивает счетчики курса.
	CreateOrder(ctx context.Context, order models.Order, bumpCounters bool) (*models.Order, error)
	// ReadOrder возвращает заказ по публичному номеру.
	ReadOrder(ctx context.Context, orderID string) (*models.Order, error)
	// ListOrders возвращает заказы по фильтру админки.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	// ListOrdersByUser возвращает заказы пользователя.
	ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error)
	// TransitionOrder атомарно переводит заказ в новый статус.
	TransitionOrder(ctx context.Context, orderID string, to orderstate.Status, bumpCounters bool) (*models.Order, bool, error)
	// GetUser возвращает пользователя для снимка данных покупателя.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// EventPublisher публикует события жизненного цикла заказов.
type EventPublisher interface {
	PublishOrderCompleted(event events.OrderCompleted) error
}

// CourseCache инвалидирует кешированные записи каталога. Покупка меняет
// счетчики students и revenue курса, поэтому кешированная запись после
// нее устаревает.
type CourseCache interface {
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции с заказами.
//
// revenueOnCompletion выбирает момент учета выручки и числа студентов:
// при создании заказа (поведение исходной системы) или при подтверждении
// оплаты. Оба пути выполняются внутри транзакции соответствующей операции.
type Service struct {
	repo                Repository
	publisher           EventPublisher
	courseCache         CourseCache
	log                 *slog.Logger
	revenueOnCompletion bool
}

// New создает новый Service. publisher и courseCache могут быть nil —
// тогда события не публикуются, а кеш каталога не инвалидируется.
func New(repo Repository, publisher EventPublisher, courseCache CourseCache, log *slog.Logger, revenueOnCompletion bool) *Service {
	return &Service{
		repo:                repo,
		publisher:           publisher,
		courseCache:         courseCache,
		log:                 log,
		revenueOnCompletion: revenueOnCompletion,
	}
}

// Create выполняет покупку курса пользователем.
//
// Данные покупателя и курса фиксируются в заказе снимком на момент
// покупки. Номер транзакции синтезируется, если не передан.
func (s *Service) Create(ctx context.Context, userUID string, req models.CreateOrderRequest) (*models.Order, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	payment := req.Payment
	if payment == "" {
		payment = models.PaymentBkash
	}
	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = txn.Generate(payment)
	}

	order := models.Order{
		Customer:      user.Name,
		CustomerEmail: user.Email,
		UserUID:       user.UID,
		CourseID:      req.CourseID,
		Payment:       payment,
		PaymentPhone:  req.PaymentPhone,
		TransactionID: transactionID,
		Status:        orderstate.StatusPending,
	}

	created, err := s.repo.CreateOrder(ctx, order, !s.revenueOnCompletion)
	if err != nil {
		return nil, err
	}

	if !s.revenueOnCompletion {
		s.invalidateCourse(ctx, created.CourseID)
	}

	metrics.OrdersCreated.WithLabelValues(payment).Inc()
	s.log.Info("order created",
		slog.String("order_id", created.OrderID),
		slog.String("user_uid", created.UserUID),
		slog.Int64("course_id", created.CourseID),
		slog.Int64("amount", created.Amount))
	return created, nil
}

// UpdateStatus переводит заказ в новый статус.
//
// Допустимы только переходы pending -> completed и pending -> refunded;
// повтор текущего статуса — идемпотентный no-op. На переходе в completed
// хранилище выдает права на курс, а сервис публикует событие
// order.completed (best-effort: ошибка брокера только логируется).
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	to, err := orderstate.Parse(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIllegalTransition, status)
	}

	updated, changed, err := s.repo.TransitionOrder(ctx, orderID, to, s.revenueOnCompletion)
	if err != nil {
		return nil, err
	}
	if !changed {
		s.log.Info("order status unchanged", slog.String("order_id", orderID), slog.String("status", string(to)))
		return updated, nil
	}

	switch to {
	case orderstate.StatusCompleted:
		if s.revenueOnCompletion {
			s.invalidateCourse(ctx, updated.CourseID)
		}
		metrics.OrdersCompleted.Inc()
		s.publishCompleted(updated)
	case orderstate.StatusRefunded:
		metrics.OrdersRefunded.Inc()
	}

	s.log.Info("order status updated",
		slog.String("order_id", updated.OrderID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// Read возвращает заказ по публичному номеру.
func (s *Service) Read(ctx context.Context, orderID string) (*models.Order, error) {
	return s.repo.ReadOrder(ctx, orderID)
}

// List возвращает все заказы по фильтру админки.
func (s *Service) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

// ListMy возвращает заказы текущего пользователя.
func (s *Service) ListMy(ctx context.Context, userUID string) ([]*models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userUID)
}

// invalidateCourse сбрасывает кешированную запись каталога после изменения
// счетчиков курса (best-effort: ошибка кеша только логируется).
func (s *Service) invalidateCourse(ctx context.Context, courseID int64) {
	if s.courseCache == nil {
		return
	}
	if err := s.courseCache.Invalidate(ctx, cache.CourseKey(courseID)); err != nil {
		s.log.Warn("failed to invalidate course cache",
			slog.String("key", cache.CourseKey(courseID)), sl.Err(err))
	}
}

func (s *Service) publishCompleted(order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderCompleted{
		OrderID:       order.OrderID,
		UserUID:       order.UserUID,
		CustomerEmail: order.CustomerEmail,
		CourseID:      order.CourseID,
		CourseTitle:   order.CourseTitle,
		Amount:        order.Amount,
		CompletedAt:   time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderCompleted(event); err != nil {
		s.log.Warn("failed to publish order.completed event",
			slog.String("order_id", order.OrderID), sl.Err(err))
	}
}

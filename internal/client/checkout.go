package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync/atomic"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Ошибки оформления покупки.
var (
	// ErrCheckoutInFlight другое оформление покупки еще не завершено.
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	// ErrEmptyCart корзина пуста.
	ErrEmptyCart = errors.New("cart is empty")
)

var phoneRe = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

// Billing платежные данные оформления покупки.
type Billing struct {
	Payment       string
	PaymentPhone  string
	TransactionID string
}

// Validate проверяет платежные данные локально, до обращения к серверу.
func (b Billing) Validate() error {
	switch b.Payment {
	case models.PaymentBkash, models.PaymentNagad:
		if !phoneRe.MatchString(b.PaymentPhone) {
			return fmt.Errorf("invalid payment phone: %q", b.PaymentPhone)
		}
		if len(b.TransactionID) > 0 && len(b.TransactionID) < 4 {
			return fmt.Errorf("transaction id too short: %q", b.TransactionID)
		}
	case models.PaymentStripe, models.PaymentPaypal:
		// Карточные платежи подтверждаются на стороне провайдера.
	case "":
		return errors.New("payment method is required")
	default:
		return fmt.Errorf("unknown payment method: %q", b.Payment)
	}
	return nil
}

// Checkout управляет оформлением покупки: последовательно покупает
// каждый курс из корзины.
type Checkout struct {
	api      *Client
	store    *Store
	inFlight atomic.Bool
}

// NewCheckout создает Checkout поверх клиента API и состояния витрины.
func NewCheckout(api *Client, store *Store) *Checkout {
	return &Checkout{api: api, store: store}
}

// Run оформляет покупку всех курсов из корзины.
//
// Покупки выполняются последовательно; первая ошибка прерывает оформление,
// корзина при этом остается без изменений. При успехе корзина очищается,
// купленные курсы добавляются в owned, а история обновляется через MyOrders
// (best-effort: ошибка обновления истории не проваливает оформление).
func (c *Checkout) Run(ctx context.Context, billing Billing) ([]*models.Order, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInFlight
	}
	defer c.inFlight.Store(false)

	if err := billing.Validate(); err != nil {
		return nil, err
	}

	snap := c.store.Snapshot()
	if len(snap.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	orders := make([]*models.Order, 0, len(snap.Cart))
	for _, courseID := range snap.Cart {
		order, err := c.api.Purchase(ctx, models.CreateOrderRequest{
			CourseID:      courseID,
			Payment:       billing.Payment,
			PaymentPhone:  billing.PaymentPhone,
			TransactionID: billing.TransactionID,
		})
		if err != nil {
			return nil, fmt.Errorf("purchase course %d: %w", courseID, err)
		}
		orders = append(orders, order)
	}

	history, err := c.api.MyOrders(ctx)
	if err != nil {
		history = nil
	}

	c.store.completeCheckout(snap.Cart, history)
	return orders, nil
}

// completeCheckout очищает корзину, добавляет купленные курсы в owned
// и заменяет историю покупок.
func (s *Store) completeCheckout(purchased []int64, history []*models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	for _, id := range purchased {
		if !slices.Contains(s.owned, id) {
			s.owned = append(s.owned, id)
		}
	}
	if history != nil {
		s.history = history
	}
	s.notifyLocked()
}

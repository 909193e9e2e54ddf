package models

import (
	"time"

	"github.com/magabrotheeeer/course-marketplace/internal/orderstate"
)

// Методы оплаты заказа.
const (
	PaymentBkash  = "bKash"
	PaymentNagad  = "Nagad"
	PaymentStripe = "Stripe"
	PaymentPaypal = "PayPal"
)

// Order представляет одну попытку покупки одного курса одним пользователем.
//
// Customer, CustomerEmail, CourseTitle и Amount — снимок данных на момент
// покупки, а не живая связь: последующее редактирование курса или профиля
// их не меняет. После создания у заказа может измениться только Status.
type Order struct {
	ID            int64             `json:"-"`
	OrderID       string            `json:"orderId"`
	Customer      string            `json:"customer"`
	CustomerEmail string            `json:"customerEmail"`
	UserUID       string            `json:"userId"`
	CourseTitle   string            `json:"course"`
	CourseID      int64             `json:"courseId"`
	Amount        int64             `json:"amount"`
	Payment       string            `json:"payment"`
	PaymentPhone  string            `json:"paymentPhone"`
	TransactionID string            `json:"transactionId"`
	Status        orderstate.Status `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// CreateOrderRequest данные покупки курса.
//
// TransactionID опционален: при отсутствии сервер синтезирует его сам.
// PaymentPhone проверяется региональным правилом bd_phone.
type CreateOrderRequest struct {
	CourseID      int64  `json:"courseId" validate:"required,gt=0"`
	Payment       string `json:"payment" validate:"omitempty,oneof=bKash Nagad Stripe PayPal"`
	PaymentPhone  string `json:"paymentPhone" validate:"omitempty,bd_phone"`
	TransactionID string `json:"transactionId" validate:"omitempty"`
}

// UpdateOrderStatusRequest единственное изменяемое поле заказа.
// Произвольные ключи тела запроса игнорируются.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed refunded"`
}

// OrderFilter фильтр списка заказов для админки: по статусу и подстроке
// в orderId или имени покупателя.
type OrderFilter struct {
	Status string
	Search string
}

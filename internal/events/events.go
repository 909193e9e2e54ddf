// Package events публикует события жизненного цикла заказов в RabbitMQ.
//
// Публикация best-effort: ошибка брокера логируется вызывающей стороной
// и никогда не откатывает переход статуса заказа.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Exchange и очереди событий заказов.
const (
	Exchange            = "orders"
	QueueOrderCompleted = "order.completed"
)

// OrderCompleted событие подтверждения оплаты заказа.
type OrderCompleted struct {
	OrderID       string    `json:"order_id"`
	UserUID       string    `json:"user_uid"`
	CustomerEmail string    `json:"customer_email"`
	CourseID      int64     `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	Amount        int64     `json:"amount"`
	CompletedAt   time.Time `json:"completed_at"`
}

// QueueConfig описание очереди и ее ключа маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// OrderQueues возвращает очереди событий заказов.
func OrderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueOrderCompleted, RoutingKey: "completed"},
	}
}

// Connect подключается к RabbitMQ с повторами.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет exchange и очереди событий.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "events.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}

// Publisher публикует события заказов в заранее настроенный канал.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishOrderCompleted публикует событие подтверждения заказа.
func (p *Publisher) PublishOrderCompleted(event OrderCompleted) error {
	const op = "events.PublishOrderCompleted"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		"completed",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

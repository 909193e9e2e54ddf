// Package orderstate описывает жизненный цикл заказа как закрытый набор
// статусов и таблицу допустимых переходов между ними.
//
// Права на курс выдаются только на переходе pending -> completed.
// Переход pending -> refunded меняет лишь статус заказа: автоматический
// отзыв прав не реализован.
package orderstate

import "fmt"

// Status статус заказа.
type Status string

const (
	// StatusPending начальный статус: оплата еще не подтверждена администратором.
	StatusPending Status = "pending"
	// StatusCompleted терминальный статус: оплата подтверждена, права выданы.
	StatusCompleted Status = "completed"
	// StatusRefunded терминальный статус: заказ возвращен.
	StatusRefunded Status = "refunded"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusCompleted: true, StatusRefunded: true},
	StatusCompleted: {},
	StatusRefunded:  {},
}

// Parse проверяет, что строка является известным статусом заказа.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusRefunded:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// CanTransition сообщает, допустим ли переход из from в to.
// Повтор текущего статуса переходом не считается и разрешается
// вызывающей стороной как no-op.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// IsTerminal сообщает, что из статуса нет исходящих переходов.
func IsTerminal(s Status) bool {
	return len(validNext[s]) == 0
}

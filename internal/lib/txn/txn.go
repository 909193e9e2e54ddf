// Package txn генерирует опорные номера транзакций для заказов,
// оплаченных без внешнего платежного шлюза (bKash/Nagad).
//
// Формат: префикс метода оплаты, метка времени в base36 и короткий
// случайный суффикс. Уникальность обеспечивается только вероятностно.
package txn

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const suffixLen = 4

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Prefix возвращает префикс номера транзакции для метода оплаты.
func Prefix(paymentMethod string) string {
	if paymentMethod == "Nagad" {
		return "NGD"
	}
	return "BKS"
}

// Generate синтезирует номер транзакции для заданного метода оплаты.
func Generate(paymentMethod string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var suffix strings.Builder
	for range suffixLen {
		suffix.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}

	return Prefix(paymentMethod) + strings.ToUpper(ts) + strings.ToUpper(suffix.String())
}

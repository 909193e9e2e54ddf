// Package validate создает настроенный валидатор запросов
// с дополнительными доменными правилами.
package validate

import (
	"regexp"

	"github.com/go-playground/validator"
)

var bdPhoneRe = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

// New возвращает валидатор с зарегистрированным правилом bd_phone
// (бангладешский мобильный номер формата 01XXXXXXXXX).
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bd_phone", func(fl validator.FieldLevel) bool {
		return bdPhoneRe.MatchString(fl.Field().String())
	})
	return v
}

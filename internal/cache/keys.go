package cache

import "fmt"

// CourseKey ключ кеша записи каталога. Единый формат для всех сервисов,
// которые кешируют курс или инвалидируют его после изменения счетчиков.
func CourseKey(id int64) string {
	return fmt.Sprintf("course:%d", id)
}

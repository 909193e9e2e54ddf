package models

import "time"

// Статусы публикации курса.
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

// Course представляет запись каталога курсов.
//
// Students и Revenue — накопительные счетчики, которые меняются как
// побочный эффект операций с заказами; клиенты API их не задают.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Instructor  string    `json:"instructor"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Students    int64     `json:"students"`
	Rating      float64   `json:"rating"`
	Status      string    `json:"status"`
	Revenue     int64     `json:"revenue"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateCourseRequest данные создания курса.
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Instructor  string  `json:"instructor" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=Development Design 'Data Science' Business Marketing 'AI & ML' Cloud Security"`
	Price       int64   `json:"price" validate:"gte=0"`
	Rating      float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft published"`
	Image       string  `json:"image" validate:"omitempty"`
	Description string  `json:"description" validate:"omitempty"`
}

// UpdateCourseRequest изменяемые поля курса. Счетчики students и revenue
// через API не меняются.
type UpdateCourseRequest struct {
	Title       string   `json:"title" validate:"omitempty"`
	Instructor  string   `json:"instructor" validate:"omitempty"`
	Category    string   `json:"category" validate:"omitempty,oneof=Development Design 'Data Science' Business Marketing 'AI & ML' Cloud Security"`
	Price       *int64   `json:"price" validate:"omitempty,gte=0"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published"`
	Image       string   `json:"image" validate:"omitempty"`
	Description *string  `json:"description" validate:"omitempty"`
}

// CourseFilter фильтр списка курсов каталога.
type CourseFilter struct {
	Category string
	Status   string
	Search   string
}

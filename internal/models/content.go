package models

import "time"

// Типы уроков учебного модуля.
const (
	LessonTypeVideo    = "video"
	LessonTypeQuiz     = "quiz"
	LessonTypeExercise = "exercise"
	LessonTypeReading  = "reading"
)

// ContentLesson урок внутри модуля курса.
type ContentLesson struct {
	Title       string `json:"title"`
	Type        string `json:"type" validate:"omitempty,oneof=video quiz exercise reading"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"videoUrl"`
	Description string `json:"description"`
}

// ContentModule модуль курса с набором уроков.
type ContentModule struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lessons     []ContentLesson `json:"lessons" validate:"dive"`
}

// ContentResource дополнительный материал курса (файл или ссылка).
type ContentResource struct {
	Title string `json:"title"`
	Type  string `json:"type" validate:"omitempty,oneof=pdf code zip image link doc spreadsheet"`
	URL   string `json:"url"`
	Size  string `json:"size"`
}

// CourseContent учебные материалы курса: модули с уроками и ресурсы.
// На курс приходится не более одного документа; отсутствующий документ
// читается как пустой.
type CourseContent struct {
	CourseID  int64             `json:"courseId"`
	Modules   []ContentModule   `json:"modules"`
	Resources []ContentResource `json:"resources"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

// UpdateContentRequest замена материалов курса. nil-поле оставляет
// соответствующую часть документа без изменений.
type UpdateContentRequest struct {
	Modules   *[]ContentModule   `json:"modules" validate:"omitempty,dive"`
	Resources *[]ContentResource `json:"resources" validate:"omitempty,dive"`
}

// Package content содержит логику работы с учебными материалами курса.
//
// Материалы читаются всеми, но ссылки на видео и файлы получают только
// пользователи с правом доступа к курсу и сотрудники; остальным документ
// отдается в режиме превью — структура модулей и уроков без ссылок.
package content

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// ErrCourseNotFound курс не существует.
var ErrCourseNotFound = repository.ErrCourseNotFound

// Repository определяет методы хранилища для материалов курса.
type Repository interface {
	ReadContent(ctx context.Context, courseID int64) (*models.CourseContent, error)
	UpsertContent(ctx context.Context, courseID int64, req models.UpdateContentRequest) (*models.CourseContent, error)
	HasEntitlement(ctx context.Context, userUID string, courseID int64) (bool, error)
}

// Service реализует операции с материалами курса.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Read возвращает материалы курса для заданного зрителя.
//
// Пустые viewerUID и viewerRole означают анонимный запрос. Сотрудники
// (admin, instructor) и владельцы права на курс получают документ целиком,
// остальные — превью без ссылок на видео и файлы.
func (s *Service) Read(ctx context.Context, courseID int64, viewerUID, viewerRole string) (*models.CourseContent, error) {
	content, err := s.repo.ReadContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if viewerRole == models.RoleAdmin || viewerRole == models.RoleInstructor {
		return content, nil
	}
	if viewerUID != "" {
		entitled, err := s.repo.HasEntitlement(ctx, viewerUID, courseID)
		if err != nil {
			return nil, err
		}
		if entitled {
			return content, nil
		}
	}
	return preview(content), nil
}

// Update создает или обновляет материалы курса.
func (s *Service) Update(ctx context.Context, courseID int64, req models.UpdateContentRequest) (*models.CourseContent, error) {
	updated, err := s.repo.UpsertContent(ctx, courseID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("course content updated",
		slog.Int64("course_id", courseID),
		slog.Int("modules", len(updated.Modules)),
		slog.Int("resources", len(updated.Resources)))
	return updated, nil
}

// preview возвращает копию документа без ссылок на видео и файлы.
// Названия, описания и длительности остаются видимыми.
func preview(content *models.CourseContent) *models.CourseContent {
	result := &models.CourseContent{
		CourseID:  content.CourseID,
		Modules:   make([]models.ContentModule, len(content.Modules)),
		Resources: make([]models.ContentResource, len(content.Resources)),
		UpdatedAt: content.UpdatedAt,
	}
	for i, module := range content.Modules {
		copied := module
		copied.Lessons = make([]models.ContentLesson, len(module.Lessons))
		for j, lesson := range module.Lessons {
			lesson.VideoURL = ""
			copied.Lessons[j] = lesson
		}
		result.Modules[i] = copied
	}
	for i, resource := range content.Resources {
		resource.URL = ""
		result.Resources[i] = resource
	}
	return result
}

// Package course содержит бизнес-логику каталога курсов с кешированием
// отдельных записей в Redis.
package course

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-marketplace/internal/cache"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// ErrCourseNotFound курс не существует.
var ErrCourseNotFound = repository.ErrCourseNotFound

const cacheTTL = time.Hour

// Repository определяет методы хранилища для каталога.
type Repository interface {
	CreateCourse(ctx context.Context, course models.Course) (int64, error)
	ReadCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) (int, error)
}

// Cache описывает методы кеширования записей каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции каталога курсов.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает курс и кеширует его.
func (s *Service) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	course := models.Course{
		Title:       req.Title,
		Instructor:  req.Instructor,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
		Status:      req.Status,
		Image:       req.Image,
		Description: req.Description,
	}
	if course.Rating == 0 {
		course.Rating = 4.5
	}
	if course.Status == "" {
		course.Status = models.CourseStatusDraft
	}
	if course.Image == "" {
		course.Image = "linear-gradient(135deg, #667eea, #764ba2)"
	}

	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new course", slog.Int64("id", id), slog.String("title", course.Title))

	created, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.CourseKey(id), created, cacheTTL); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", cache.CourseKey(id)), sl.Err(err))
	}
	return created, nil
}

// Read возвращает курс по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int64) (*models.Course, error) {
	var result *models.Course
	found, err := s.cache.Get(ctx, cache.CourseKey(id), &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cache.CourseKey(id)), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.CourseKey(id), result, cacheTTL); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", cache.CourseKey(id)), sl.Err(err))
	}
	return result, nil
}

// List возвращает курсы каталога по фильтру. Списки не кешируются.
func (s *Service) List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	return s.repo.ListCourses(ctx, filter)
}

// Update обновляет курс и инвалидирует его кеш.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.Course, error) {
	updated, err := s.repo.UpdateCourse(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, cache.CourseKey(id)); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.String("key", cache.CourseKey(id)), sl.Err(err))
	}
	return updated, nil
}

// Delete удаляет курс и инвалидирует его кеш.
func (s *Service) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteCourse(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	if err := s.cache.Invalidate(ctx, cache.CourseKey(id)); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.String("key", cache.CourseKey(id)), sl.Err(err))
	}
	return nil
}

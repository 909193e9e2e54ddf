package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// CreateCourse вставляет новую запись каталога и возвращает её ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int64, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (title, instructor, category, price, rating, status, image, description)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Instructor, course.Category, course.Price,
		course.Rating, course.Status, course.Image, course.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCourse возвращает курс по ID.
func (s *Storage) ReadCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.ReadCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, instructor, category, price, students, rating,
			      status, revenue, image, description, created_at
			  FROM courses WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Course
	if err := row.Scan(&result.ID, &result.Title, &result.Instructor, &result.Category,
		&result.Price, &result.Students, &result.Rating, &result.Status, &result.Revenue,
		&result.Image, &result.Description, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListCourses возвращает курсы каталога с фильтром по категории, статусу
// публикации и поиском по названию или имени преподавателя, новые первыми.
func (s *Storage) ListCourses(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, instructor, category, price, students, rating,
			      status, revenue, image, description, created_at
			  FROM courses
			  WHERE ($1 = '' OR category = $1)
			    AND ($2 = '' OR status = $2)
			    AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR instructor ILIKE '%' || $3 || '%')
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, filter.Category, filter.Status, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var item models.Course
		if err = rows.Scan(&item.ID, &item.Title, &item.Instructor, &item.Category,
			&item.Price, &item.Students, &item.Rating, &item.Status, &item.Revenue,
			&item.Image, &item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCourse обновляет разрешенный набор полей курса. Счетчики students
// и revenue этим запросом не затрагиваются.
func (s *Storage) UpdateCourse(ctx context.Context, id int64, req models.UpdateCourseRequest) (*models.Course, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = COALESCE(NULLIF($1, ''), title),
			      instructor = COALESCE(NULLIF($2, ''), instructor),
			      category = COALESCE(NULLIF($3, ''), category),
			      price = COALESCE($4, price),
			      rating = COALESCE($5, rating),
			      status = COALESCE(NULLIF($6, ''), status),
			      image = COALESCE(NULLIF($7, ''), image),
			      description = COALESCE($8, description)
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		req.Title, req.Instructor, req.Category, req.Price, req.Rating,
		req.Status, req.Image, req.Description, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrCourseNotFound)
	}
	return s.ReadCourse(ctx, id)
}

// DeleteCourse удаляет курс и возвращает количество удалённых строк.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

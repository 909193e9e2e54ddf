package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// ReadContent возвращает учебные материалы курса. Отсутствующий документ
// возвращается как пустой: без модулей и без ресурсов.
func (s *Storage) ReadContent(ctx context.Context, courseID int64) (*models.CourseContent, error) {
	const op = "storage.ReadContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT modules, resources, updated_at FROM course_content WHERE course_id = $1`
	content := &models.CourseContent{CourseID: courseID}
	var modulesRaw, resourcesRaw []byte
	row := s.DB.QueryRowContext(ctx, query, courseID)
	if err := row.Scan(&modulesRaw, &resourcesRaw, &content.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			content.Modules = []models.ContentModule{}
			content.Resources = []models.ContentResource{}
			return content, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(modulesRaw, &content.Modules); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(resourcesRaw, &content.Resources); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}

// UpsertContent создает или обновляет материалы курса. nil-поле запроса
// оставляет соответствующую часть документа без изменений; при первом
// сохранении она инициализируется пустым списком. Ссылка на
// несуществующий курс превращается в ErrCourseNotFound.
func (s *Storage) UpsertContent(ctx context.Context, courseID int64, req models.UpdateContentRequest) (*models.CourseContent, error) {
	const op = "storage.UpsertContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var modulesArg, resourcesArg any
	if req.Modules != nil {
		raw, err := json.Marshal(req.Modules)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		modulesArg = raw
	}
	if req.Resources != nil {
		raw, err := json.Marshal(req.Resources)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resourcesArg = raw
	}

	query := `INSERT INTO course_content (course_id, modules, resources)
			  VALUES ($1, COALESCE($2::jsonb, '[]'::jsonb), COALESCE($3::jsonb, '[]'::jsonb))
			  ON CONFLICT (course_id) DO UPDATE SET
			      modules = COALESCE($2::jsonb, course_content.modules),
			      resources = COALESCE($3::jsonb, course_content.resources),
			      updated_at = now()
			  RETURNING modules, resources, updated_at`
	content := &models.CourseContent{CourseID: courseID}
	var modulesRaw, resourcesRaw []byte
	row := s.DB.QueryRowContext(ctx, query, courseID, modulesArg, resourcesArg)
	if err := row.Scan(&modulesRaw, &resourcesRaw, &content.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(modulesRaw, &content.Modules); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(resourcesRaw, &content.Resources); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}

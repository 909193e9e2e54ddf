package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// ReadDoc возвращает конфигурационный документ-одиночку заданного вида.
// Отсутствующий документ возвращается как пустой объект.
func (s *Storage) ReadDoc(ctx context.Context, kind string) (*models.SettingsDoc, error) {
	const op = "storage.ReadDoc"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payload FROM site_documents WHERE kind = $1`
	var payload json.RawMessage
	if err := s.DB.QueryRowContext(ctx, query, kind).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.SettingsDoc{Kind: kind, Payload: json.RawMessage(`{}`)}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.SettingsDoc{Kind: kind, Payload: payload}, nil
}

// UpsertDoc сохраняет конфигурационный документ, заменяя предыдущий целиком.
func (s *Storage) UpsertDoc(ctx context.Context, kind string, payload json.RawMessage) (*models.SettingsDoc, error) {
	const op = "storage.UpsertDoc"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO site_documents (kind, payload)
			  VALUES ($1, $2)
			  ON CONFLICT (kind) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, kind, payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.SettingsDoc{Kind: kind, Payload: payload}, nil
}

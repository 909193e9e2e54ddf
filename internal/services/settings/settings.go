// Package settings содержит логику работы с конфигурационными
// документами-одиночками сайта (settings и site_config).
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// ErrNotAnObject тело документа должно быть JSON-объектом.
var ErrNotAnObject = errors.New("document payload must be a JSON object")

// Repository определяет методы хранилища для конфигурационных документов.
type Repository interface {
	ReadDoc(ctx context.Context, kind string) (*models.SettingsDoc, error)
	UpsertDoc(ctx context.Context, kind string, payload json.RawMessage) (*models.SettingsDoc, error)
}

// Service реализует чтение и замену конфигурационных документов.
type Service struct {
	repo Repository
}

// New создает новый Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Read возвращает документ заданного вида.
func (s *Service) Read(ctx context.Context, kind string) (*models.SettingsDoc, error) {
	return s.repo.ReadDoc(ctx, kind)
}

// Update заменяет документ целиком. Содержимое непрозрачно, но обязано
// быть JSON-объектом.
func (s *Service) Update(ctx context.Context, kind string, payload json.RawMessage) (*models.SettingsDoc, error) {
	var probe map[string]any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAnObject, err)
	}
	return s.repo.UpsertDoc(ctx, kind, payload)
}

// Package settingsupdate реализует HTTP-обработчик замены конфигурационного
// документа сайта целиком.
package settingsupdate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-marketplace/internal/http/response"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/services/settings"
)

// Handler обрабатывает запросы на замену конфигурационного документа.
type Handler struct {
	log     *slog.Logger
	service Service
	kind    string
}

// Service описывает интерфейс бизнес-логики замены документа.
type Service interface {
	Update(ctx context.Context, kind string, payload json.RawMessage) (*models.SettingsDoc, error)
}

// New создает новый Handler для документа заданного вида.
func New(log *slog.Logger, service Service, kind string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		kind:    kind,
	}
}

// ServeHTTP godoc
// @Summary Заменить конфигурационный документ
// @Description Полностью заменяет содержимое документа настроек переданным JSON-объектом.
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сохраненное содержимое документа"
// @Failure 400 {object} response.ErrorResponse "Тело запроса не является JSON-объектом"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.settingsupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", h.kind),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	doc, err := h.service.Update(r.Context(), h.kind, body)
	if err != nil {
		if errors.Is(err, settings.ErrNotAnObject) {
			log.Error("payload is not a json object", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("request body must be a JSON object"))
			return
		}
		log.Error("failed to update document", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update settings"))
		return
	}

	log.Info("document replaced")
	render.JSON(w, r, response.OKWithData(json.RawMessage(doc.Payload)))
}

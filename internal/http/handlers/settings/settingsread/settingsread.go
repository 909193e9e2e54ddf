// Package settingsread реализует HTTP-обработчик чтения конфигурационного
// документа сайта. Один и тот же обработчик обслуживает настройки админки
// и публичную конфигурацию сайта — вид документа задается при создании.
package settingsread

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-marketplace/internal/http/response"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Handler обрабатывает запросы на чтение конфигурационного документа.
type Handler struct {
	log     *slog.Logger
	service Service
	kind    string
}

// Service описывает интерфейс бизнес-логики чтения документа.
type Service interface {
	Read(ctx context.Context, kind string) (*models.SettingsDoc, error)
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
// @Summary Получить конфигурационный документ
// @Description Возвращает документ настроек целиком. Для отсутствующего документа возвращается пустой объект.
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]any "Содержимое документа"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.settingsread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", h.kind),
	)

	doc, err := h.service.Read(r.Context(), h.kind)
	if err != nil {
		log.Error("failed to read document", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read settings"))
		return
	}

	render.JSON(w, r, response.OKWithData(json.RawMessage(doc.Payload)))
}

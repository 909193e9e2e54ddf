// Package contentread реализует HTTP-обработчик чтения учебных материалов
// курса. Документ доступен без аутентификации, но ссылки на видео и файлы
// получают только сотрудники и пользователи с правом доступа к курсу.
package contentread

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-marketplace/internal/http/response"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// Handler обрабатывает запросы на чтение материалов курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения материалов.
type Service interface {
	Read(ctx context.Context, courseID int64, viewerUID, viewerRole string) (*models.CourseContent, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить материалы курса
// @Description Возвращает модули, уроки и ресурсы курса. Для курса без материалов возвращается пустой документ. Без права доступа к курсу ссылки на видео и файлы скрыты.
// @Tags Content
// @Produce json
// @Param courseId path int true "ID курса"
// @Success 200 {object} map[string]any "Материалы курса"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID курса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{courseId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.contentread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseId"), 10, 64)
	if err != nil {
		log.Error("failed to decode course id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode course id from url"))
		return
	}

	viewerUID, _ := r.Context().Value(middlewarectx.User).(string)
	viewerRole, _ := r.Context().Value(middlewarectx.Role).(string)

	res, err := h.service.Read(r.Context(), courseID, viewerUID, viewerRole)
	if err != nil {
		log.Error("failed to read course content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read course content"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"content": res,
	}))
}

package contentupdate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/services/content"
)

// MockService реализует интерфейс contentupdate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, courseID int64, req models.UpdateContentRequest) (*models.CourseContent, error) {
	args := m.Called(ctx, courseID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.CourseContent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestContentUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		courseID       string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "сохранение модулей курса",
			courseID: "7",
			body:     `{"modules": [{"title": "Getting Started", "lessons": [{"title": "Intro", "type": "video"}]}]}`,
			setupMock: func(m *MockService) {
				stored := &models.CourseContent{
					CourseID: 7,
					Modules: []models.ContentModule{
						{Title: "Getting Started", Lessons: []models.ContentLesson{
							{Title: "Intro", Type: models.LessonTypeVideo},
						}},
					},
					Resources: []models.ContentResource{},
				}
				m.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(req models.UpdateContentRequest) bool {
					return req.Modules != nil && len(*req.Modules) == 1 && req.Resources == nil
				})).Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Getting Started"`,
		},
		{
			name:           "некорректный ID курса",
			courseID:       "abc",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode course id from url"`,
		},
		{
			name:           "некорректный JSON",
			courseID:       "7",
			body:           `{"modules": }`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode request"`,
		},
		{
			name:           "неизвестный тип урока",
			courseID:       "7",
			body:           `{"modules": [{"title": "M1", "lessons": [{"title": "L1", "type": "webinar"}]}]}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Type must be one of`,
		},
		{
			name:           "неизвестный тип ресурса",
			courseID:       "7",
			body:           `{"resources": [{"title": "Slides", "type": "binary"}]}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Type must be one of`,
		},
		{
			name:     "курс не найден",
			courseID: "404",
			body:     `{"modules": []}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(404), mock.Anything).
					Return(nil, content.ErrCourseNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"course not found"`,
		},
		{
			name:     "ошибка сервиса",
			courseID: "7",
			body:     `{"modules": []}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(7), mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update course content"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/content/"+tt.courseID, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("courseId", tt.courseID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

package contentread

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

	"github.com/magabrotheeeer/course-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// MockService реализует интерфейс contentread.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, courseID int64, viewerUID, viewerRole string) (*models.CourseContent, error) {
	args := m.Called(ctx, courseID, viewerUID, viewerRole)
	if res := args.Get(0); res != nil {
		return res.(*models.CourseContent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestContentReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fullContent := &models.CourseContent{
		CourseID: 7,
		Modules: []models.ContentModule{
			{Title: "Getting Started", Lessons: []models.ContentLesson{
				{Title: "Intro", Type: models.LessonTypeVideo, VideoURL: "https://cdn.example.com/intro.mp4"},
			}},
		},
		Resources: []models.ContentResource{},
	}
	previewContent := &models.CourseContent{
		CourseID: 7,
		Modules: []models.ContentModule{
			{Title: "Getting Started", Lessons: []models.ContentLesson{
				{Title: "Intro", Type: models.LessonTypeVideo},
			}},
		},
		Resources: []models.ContentResource{},
	}

	tests := []struct {
		name           string
		courseID       string
		viewerUID      string
		viewerRole     string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "владелец права видит ссылки на видео",
			courseID:   "7",
			viewerUID:  "uid-1",
			viewerRole: models.RoleStudent,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(7), "uid-1", models.RoleStudent).
					Return(fullContent, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"videoUrl":"https://cdn.example.com/intro.mp4"`,
		},
		{
			name:     "анонимный запрос получает превью",
			courseID: "7",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(7), "", "").
					Return(previewContent, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"videoUrl":""`,
		},
		{
			name:           "некорректный ID курса",
			courseID:       "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode course id from url"`,
		},
		{
			name:     "ошибка сервиса",
			courseID: "7",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, int64(7), "", "").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read course content"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/content/"+tt.courseID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("courseId", tt.courseID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.viewerUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.viewerUID)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.viewerRole)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

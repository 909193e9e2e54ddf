package order

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/events"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/orderstate"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrder(ctx context.Context, order models.Order, bumpCounters bool) (*models.Order, error) {
	args := m.Called(ctx, order, bumpCounters)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ReadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.([]*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) TransitionOrder(ctx context.Context, orderID string, to orderstate.Status, bumpCounters bool) (*models.Order, bool, error) {
	args := m.Called(ctx, orderID, to, bumpCounters)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCompleted(event events.OrderCompleted) error {
	args := m.Called(event)
	return args.Error(0)
}

type MockCourseCache struct {
	mock.Mock
}

func (m *MockCourseCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testUser() *models.User {
	return &models.User{
		UID:    "a0e1f7d3-16a2-4f6a-9f2e-000000000001",
		Name:   "Test Student",
		Email:  "student@example.com",
		Role:   models.RoleStudent,
		Status: models.UserStatusActive,
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name                string
		req                 models.CreateOrderRequest
		revenueOnCompletion bool
		wantBump            bool
		wantPayment         string
		wantTxnPrefix       string
		wantErr             error
	}{
		{
			name:          "defaults to bKash and synthesizes transaction id",
			req:           models.CreateOrderRequest{CourseID: 7},
			wantBump:      true,
			wantPayment:   models.PaymentBkash,
			wantTxnPrefix: "BKS",
		},
		{
			name:          "nagad gets NGD prefix",
			req:           models.CreateOrderRequest{CourseID: 7, Payment: models.PaymentNagad, PaymentPhone: "01712345678"},
			wantBump:      true,
			wantPayment:   models.PaymentNagad,
			wantTxnPrefix: "NGD",
		},
		{
			name:          "explicit transaction id is kept",
			req:           models.CreateOrderRequest{CourseID: 7, TransactionID: "BKS12345"},
			wantBump:      true,
			wantPayment:   models.PaymentBkash,
			wantTxnPrefix: "BKS12345",
		},
		{
			name:                "revenue on completion suppresses counter bump at creation",
			req:                 models.CreateOrderRequest{CourseID: 7},
			revenueOnCompletion: true,
			wantBump:            false,
			wantPayment:         models.PaymentBkash,
			wantTxnPrefix:       "BKS",
		},
		{
			name:    "course not found passes through",
			req:     models.CreateOrderRequest{CourseID: 404},
			wantErr: ErrCourseNotFound,
		},
		{
			name:    "already entitled passes through",
			req:     models.CreateOrderRequest{CourseID: 7},
			wantErr: ErrAlreadyEntitled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetUser", mock.Anything, testUser().UID).Return(testUser(), nil)

			if tt.wantErr != nil {
				repo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, tt.wantErr)
			} else {
				repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
					return o.Customer == "Test Student" &&
						o.CustomerEmail == "student@example.com" &&
						o.CourseID == tt.req.CourseID &&
						o.Payment == tt.wantPayment &&
						o.Status == orderstate.StatusPending &&
						strings.HasPrefix(o.TransactionID, tt.wantTxnPrefix)
				}), tt.wantBump).Return(&models.Order{
					OrderID:  "ORD-2848",
					UserUID:  testUser().UID,
					CourseID: tt.req.CourseID,
					Amount:   99,
					Payment:  tt.wantPayment,
					Status:   orderstate.StatusPending,
				}, nil)
			}

			svc := New(repo, nil, nil, testLogger(), tt.revenueOnCompletion)
			got, err := svc.Create(context.Background(), testUser().UID, tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ORD-2848", got.OrderID)
				assert.Equal(t, orderstate.StatusPending, got.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_UpdateStatus_CompletedPublishesEvent(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	completed := &models.Order{
		OrderID:       "ORD-2848",
		UserUID:       testUser().UID,
		CustomerEmail: "student@example.com",
		CourseID:      7,
		CourseTitle:   "Go for Backend",
		Amount:        99,
		Status:        orderstate.StatusCompleted,
	}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, false).
		Return(completed, true, nil)
	publisher.On("PublishOrderCompleted", mock.MatchedBy(func(e events.OrderCompleted) bool {
		return e.OrderID == "ORD-2848" && e.CourseID == 7 && e.Amount == 99
	})).Return(nil)

	svc := New(repo, publisher, nil, testLogger(), false)
	got, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	assert.Equal(t, orderstate.StatusCompleted, got.Status)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestService_UpdateStatus_NoOpDoesNotPublish(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	completed := &models.Order{OrderID: "ORD-2848", Status: orderstate.StatusCompleted}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, false).
		Return(completed, false, nil)

	svc := New(repo, publisher, nil, testLogger(), false)
	got, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	assert.Equal(t, orderstate.StatusCompleted, got.Status)
	publisher.AssertNotCalled(t, "PublishOrderCompleted", mock.Anything)
}

func TestService_UpdateStatus_PublisherFailureDoesNotFailTransition(t *testing.T) {
	repo := new(MockRepository)
	publisher := new(MockPublisher)

	completed := &models.Order{OrderID: "ORD-2848", Status: orderstate.StatusCompleted}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, false).
		Return(completed, true, nil)
	publisher.On("PublishOrderCompleted", mock.Anything).Return(assert.AnError)

	svc := New(repo, publisher, nil, testLogger(), false)
	got, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	assert.Equal(t, orderstate.StatusCompleted, got.Status)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name:      "unknown status rejected before storage",
			status:    "cancelled",
			setupMock: func(_ *MockRepository) {},
			wantErr:   ErrIllegalTransition,
		},
		{
			name:   "illegal transition from storage",
			status: "pending",
			setupMock: func(m *MockRepository) {
				m.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusPending, false).
					Return(nil, false, ErrIllegalTransition)
			},
			wantErr: ErrIllegalTransition,
		},
		{
			name:   "order not found",
			status: "completed",
			setupMock: func(m *MockRepository) {
				m.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, false).
					Return(nil, false, ErrOrderNotFound)
			},
			wantErr: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)

			svc := New(repo, nil, nil, testLogger(), false)
			got, err := svc.UpdateStatus(context.Background(), "ORD-2848", tt.status)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_UpdateStatus_RevenueOnCompletionBumpsAtTransition(t *testing.T) {
	repo := new(MockRepository)

	completed := &models.Order{OrderID: "ORD-2848", Status: orderstate.StatusCompleted}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, true).
		Return(completed, true, nil)

	svc := New(repo, nil, nil, testLogger(), true)
	_, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Create_InvalidatesCourseCache(t *testing.T) {
	repo := new(MockRepository)
	courseCache := new(MockCourseCache)

	repo.On("GetUser", mock.Anything, testUser().UID).Return(testUser(), nil)
	repo.On("CreateOrder", mock.Anything, mock.Anything, true).Return(&models.Order{
		OrderID:  "ORD-2848",
		UserUID:  testUser().UID,
		CourseID: 7,
		Amount:   99,
		Status:   orderstate.StatusPending,
	}, nil)
	courseCache.On("Invalidate", mock.Anything, "course:7").Return(nil)

	svc := New(repo, nil, courseCache, testLogger(), false)
	_, err := svc.Create(context.Background(), testUser().UID, models.CreateOrderRequest{CourseID: 7})

	require.NoError(t, err)
	courseCache.AssertExpectations(t)
}

func TestService_Create_RevenueOnCompletionKeepsCourseCache(t *testing.T) {
	repo := new(MockRepository)
	courseCache := new(MockCourseCache)

	repo.On("GetUser", mock.Anything, testUser().UID).Return(testUser(), nil)
	repo.On("CreateOrder", mock.Anything, mock.Anything, false).Return(&models.Order{
		OrderID:  "ORD-2848",
		UserUID:  testUser().UID,
		CourseID: 7,
		Status:   orderstate.StatusPending,
	}, nil)

	svc := New(repo, nil, courseCache, testLogger(), true)
	_, err := svc.Create(context.Background(), testUser().UID, models.CreateOrderRequest{CourseID: 7})

	require.NoError(t, err)
	courseCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestService_Create_CacheFailureDoesNotFailPurchase(t *testing.T) {
	repo := new(MockRepository)
	courseCache := new(MockCourseCache)

	repo.On("GetUser", mock.Anything, testUser().UID).Return(testUser(), nil)
	repo.On("CreateOrder", mock.Anything, mock.Anything, true).Return(&models.Order{
		OrderID:  "ORD-2848",
		UserUID:  testUser().UID,
		CourseID: 7,
		Status:   orderstate.StatusPending,
	}, nil)
	courseCache.On("Invalidate", mock.Anything, "course:7").Return(assert.AnError)

	svc := New(repo, nil, courseCache, testLogger(), false)
	got, err := svc.Create(context.Background(), testUser().UID, models.CreateOrderRequest{CourseID: 7})

	require.NoError(t, err)
	assert.Equal(t, "ORD-2848", got.OrderID)
}

func TestService_UpdateStatus_RevenueOnCompletionInvalidatesCourseCache(t *testing.T) {
	repo := new(MockRepository)
	courseCache := new(MockCourseCache)

	completed := &models.Order{OrderID: "ORD-2848", CourseID: 7, Status: orderstate.StatusCompleted}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, true).
		Return(completed, true, nil)
	courseCache.On("Invalidate", mock.Anything, "course:7").Return(nil)

	svc := New(repo, nil, courseCache, testLogger(), true)
	_, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	courseCache.AssertExpectations(t)
}

func TestService_UpdateStatus_CompletedKeepsCacheWhenBumpedAtCreation(t *testing.T) {
	repo := new(MockRepository)
	courseCache := new(MockCourseCache)

	completed := &models.Order{OrderID: "ORD-2848", CourseID: 7, Status: orderstate.StatusCompleted}
	repo.On("TransitionOrder", mock.Anything, "ORD-2848", orderstate.StatusCompleted, false).
		Return(completed, true, nil)

	svc := New(repo, nil, courseCache, testLogger(), false)
	_, err := svc.UpdateStatus(context.Background(), "ORD-2848", "completed")

	require.NoError(t, err)
	courseCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

func TestBilling_Validate(t *testing.T) {
	tests := []struct {
		name    string
		billing Billing
		wantErr bool
	}{
		{
			name:    "корректный bKash платеж",
			billing: Billing{Payment: models.PaymentBkash, PaymentPhone: "01712345678", TransactionID: "TX123456"},
		},
		{
			name:    "корректный Nagad платеж без номера транзакции",
			billing: Billing{Payment: models.PaymentNagad, PaymentPhone: "01912345678"},
		},
		{
			name:    "карточный платеж без телефона",
			billing: Billing{Payment: models.PaymentStripe},
		},
		{
			name:    "телефон с неизвестным префиксом оператора",
			billing: Billing{Payment: models.PaymentBkash, PaymentPhone: "01012345678"},
			wantErr: true,
		},
		{
			name:    "слишком короткий номер транзакции",
			billing: Billing{Payment: models.PaymentBkash, PaymentPhone: "01712345678", TransactionID: "TX"},
			wantErr: true,
		},
		{
			name:    "метод оплаты не указан",
			billing: Billing{},
			wantErr: true,
		},
		{
			name:    "неизвестный метод оплаты",
			billing: Billing{Payment: "Cash"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.billing.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// newTestServer поднимает сервер, продающий любые курсы кроме failCourseID.
func newTestServer(t *testing.T, failCourseID int64) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var purchases atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.CourseID == failCourseID {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"status": "Error", "error": "course not found"})
			return
		}
		n := purchases.Add(1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": map[string]any{
				"order": models.Order{
					OrderID:  fmt.Sprintf("ORD-%d", 2848+n),
					CourseID: req.CourseID,
					Status:   "pending",
				},
			},
		})
	})
	mux.HandleFunc("GET /api/v1/orders/my/purchases", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"data": map[string]any{
				"orders": []models.Order{{OrderID: "ORD-2849", Status: "pending"}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &purchases
}

func TestCheckout_Run(t *testing.T) {
	srv, purchases := newTestServer(t, 0)

	api := NewClient(srv.URL)
	api.SetToken("jwt-token")

	store := NewStore()
	store.AddToCart(7)
	store.AddToCart(9)

	checkout := NewCheckout(api, store)
	orders, err := checkout.Run(context.Background(), Billing{
		Payment:      models.PaymentBkash,
		PaymentPhone: "01712345678",
	})

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int32(2), purchases.Load())

	snap := store.Snapshot()
	assert.Empty(t, snap.Cart, "корзина очищается после успешной покупки")
	assert.ElementsMatch(t, []int64{7, 9}, snap.Owned)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "ORD-2849", snap.History[0].OrderID)
}

func TestCheckout_Run_AbortsOnFirstError(t *testing.T) {
	srv, purchases := newTestServer(t, 9)

	api := NewClient(srv.URL)
	store := NewStore()
	store.AddToCart(7)
	store.AddToCart(9)
	store.AddToCart(11)

	checkout := NewCheckout(api, store)
	_, err := checkout.Run(context.Background(), Billing{
		Payment:      models.PaymentBkash,
		PaymentPhone: "01712345678",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "course not found")
	// Третий курс не покупался: оформление прервано на втором
	assert.Equal(t, int32(1), purchases.Load())
	assert.Equal(t, []int64{7, 9, 11}, store.Snapshot().Cart, "корзина остается без изменений")
}

func TestCheckout_Run_EmptyCart(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	checkout := NewCheckout(NewClient(srv.URL), NewStore())
	_, err := checkout.Run(context.Background(), Billing{
		Payment:      models.PaymentBkash,
		PaymentPhone: "01712345678",
	})

	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_Run_InvalidBillingKeepsCart(t *testing.T) {
	srv, purchases := newTestServer(t, 0)

	api := NewClient(srv.URL)
	store := NewStore()
	store.AddToCart(7)

	checkout := NewCheckout(api, store)
	_, err := checkout.Run(context.Background(), Billing{Payment: models.PaymentBkash, PaymentPhone: "123"})

	require.Error(t, err)
	assert.Equal(t, int32(0), purchases.Load())
	assert.Equal(t, []int64{7}, store.Snapshot().Cart)
}

func TestCheckout_Run_SecondCallWhileInFlight(t *testing.T) {
	store := NewStore()
	store.AddToCart(7)

	checkout := NewCheckout(NewClient("http://unused"), store)
	checkout.inFlight.Store(true)

	_, err := checkout.Run(context.Background(), Billing{
		Payment:      models.PaymentBkash,
		PaymentPhone: "01712345678",
	})
	require.ErrorIs(t, err, ErrCheckoutInFlight)
}

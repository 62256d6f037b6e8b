package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func testOrder() *models.Order {
	return &models.Order{
		OrderNumber:     "ORD250901120001",
		Status:          models.OrderStatusConfirmed,
		Fulfillment:     models.FulfillmentDelivery,
		DeliveryAddress: "вул. Шевченка 1",
		Total:           decimal.RequireFromString("355.50"),
		EstimatedDelivery: time.Date(2025, 9, 1, 13, 30, 0, 0, time.UTC),
		Customer: &models.Customer{
			Name:  "Тарас",
			Phone: "+380973244668",
		},
		Items: []models.OrderItem{
			{ProductName: "Пиво Опілля", Quantity: decimal.NewFromInt(2), Unit: "л", LineTotal: decimal.RequireFromString("310")},
			{ProductName: "Чіпси", Quantity: decimal.NewFromInt(1), LineTotal: decimal.RequireFromString("45.50")},
		},
	}
}

func TestViberSend(t *testing.T) {
	var got viberMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Viber-Auth-Token") != "secret" {
			t.Errorf("auth token header = %q", r.Header.Get("X-Viber-Auth-Token"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"status":0,"status_message":"ok"}`))
	}))
	defer srv.Close()

	t.Setenv("VIBER_API_URL", srv.URL)
	t.Setenv("VIBER_AUTH_TOKEN", "secret")

	sender := NewViberSender()
	result := sender.Send(context.Background(), "+38 (097) 324 46 68", "привіт")
	if !result.Success {
		t.Fatalf("Send failed: %s", result.Error)
	}
	if got.Receiver != "380973244668" {
		t.Errorf("receiver = %q, want digits-only E.164", got.Receiver)
	}
	if got.Type != "text" || got.Text != "привіт" {
		t.Errorf("message = %+v", got)
	}
}

func TestViberSendApiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":2,"status_message":"receiverNotRegistered"}`))
	}))
	defer srv.Close()

	t.Setenv("VIBER_API_URL", srv.URL)
	t.Setenv("VIBER_AUTH_TOKEN", "secret")

	result := NewViberSender().Send(context.Background(), "+380973244668", "hi")
	if result.Success {
		t.Fatal("Send should report failure on non-zero status")
	}
	if !strings.Contains(result.Error, "receiverNotRegistered") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestViberUnconfigured(t *testing.T) {
	t.Setenv("VIBER_AUTH_TOKEN", "")
	result := NewViberSender().Send(context.Background(), "+380973244668", "hi")
	if result.Success {
		t.Fatal("unconfigured sender must fail softly")
	}
}

func TestOrderPlacedMessage(t *testing.T) {
	msg := OrderPlacedMessage(testOrder())
	for _, want := range []string{"ORD250901120001", "Пиво Опілля", "355.50", "вул. Шевченка 1", "13:30"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestOrderStatusMessage(t *testing.T) {
	order := testOrder()
	msg := OrderStatusMessage(order)
	if !strings.Contains(msg, "підтверджено") {
		t.Errorf("message = %q", msg)
	}

	order.Status = models.OrderStatusCancelled
	if msg := OrderStatusMessage(order); !strings.Contains(msg, "скасовано") {
		t.Errorf("cancelled message = %q", msg)
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

// Result is the contract every notification channel reports back with.
// Failures are logged by the dispatcher, never surfaced to HTTP callers.
type Result struct {
	Success bool
	Error   string
}

type ViberSender struct {
	apiURL string
	token  string
	sender string
	http   *http.Client
}

func NewViberSender() *ViberSender {
	apiURL := strings.TrimSpace(os.Getenv("VIBER_API_URL"))
	if apiURL == "" {
		apiURL = "https://chatapi.viber.com/pa/send_message"
	}
	sender := strings.TrimSpace(os.Getenv("VIBER_SENDER_NAME"))
	if sender == "" {
		sender = "Opillia Shop"
	}

	return &ViberSender{
		apiURL: apiURL,
		token:  strings.TrimSpace(os.Getenv("VIBER_AUTH_TOKEN")),
		sender: sender,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *ViberSender) Configured() bool {
	return v.token != ""
}

type viberMessage struct {
	Receiver string      `json:"receiver"`
	Type     string      `json:"type"`
	Text     string      `json:"text"`
	Sender   viberSender `json:"sender"`
}

type viberSender struct {
	Name string `json:"name"`
}

type viberResponse struct {
	Status        int    `json:"status"`
	StatusMessage string `json:"status_message"`
}

func (v *ViberSender) Send(ctx context.Context, phone, text string) Result {
	if !v.Configured() {
		return Result{Success: false, Error: "viber token not configured"}
	}
	receiver := utils.ViberReceiver(phone)
	if receiver == "" {
		return Result{Success: false, Error: "empty viber receiver"}
	}

	payload, err := json.Marshal(viberMessage{
		Receiver: receiver,
		Type:     "text",
		Text:     text,
		Sender:   viberSender{Name: v.sender},
	})
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.apiURL, bytes.NewReader(payload))
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Viber-Auth-Token", v.token)

	resp, err := v.http.Do(req)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var parsed viberResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if parsed.Status != 0 {
		return Result{Success: false, Error: fmt.Sprintf("viber status %d: %s", parsed.Status, parsed.StatusMessage)}
	}
	return Result{Success: true}
}

// OrderPlacedMessage renders the customer-facing confirmation text.
func OrderPlacedMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ваше замовлення %s прийнято!\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x %s %s\n", item.ProductName, item.Quantity.String(), item.Unit)
	}
	fmt.Fprintf(&b, "\nСума: %s грн\n", order.Total.StringFixed(2))
	if order.Fulfillment == models.FulfillmentDelivery {
		fmt.Fprintf(&b, "Доставка за адресою: %s\n", order.DeliveryAddress)
	} else {
		b.WriteString("Самовивіз з магазину\n")
	}
	fmt.Fprintf(&b, "Орієнтовний час: %s", order.EstimatedDelivery.Format("15:04"))
	return b.String()
}

// OrderStatusMessage renders the status-change text.
func OrderStatusMessage(order *models.Order) string {
	statusText := map[string]string{
		models.OrderStatusConfirmed:  "підтверджено",
		models.OrderStatusPreparing:  "готується",
		models.OrderStatusReady:      "готове до видачі",
		models.OrderStatusDelivering: "передано кур'єру",
		models.OrderStatusCompleted:  "виконано",
		models.OrderStatusCancelled:  "скасовано",
	}
	text, ok := statusText[order.Status]
	if !ok {
		text = strings.ToLower(order.Status)
	}
	return fmt.Sprintf("Замовлення %s: %s", order.OrderNumber, text)
}

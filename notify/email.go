package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

type EmailSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewEmailSender() *EmailSender {
	port := 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}
	from := strings.TrimSpace(os.Getenv("SMTP_FROM"))
	if from == "" {
		from = strings.TrimSpace(os.Getenv("SMTP_USER"))
	}

	return &EmailSender{
		host: strings.TrimSpace(os.Getenv("SMTP_HOST")),
		port: port,
		user: strings.TrimSpace(os.Getenv("SMTP_USER")),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: from,
	}
}

func (e *EmailSender) Configured() bool {
	return e.host != "" && e.from != ""
}

func (e *EmailSender) Send(to, subject, body string) Result {
	if !e.Configured() {
		return Result{Success: false, Error: "smtp not configured"}
	}
	if strings.TrimSpace(to) == "" {
		return Result{Success: false, Error: "empty recipient"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", e.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain; charset=UTF-8", body)

	dialer := gomail.NewDialer(e.host, e.port, e.user, e.pass)
	if err := dialer.DialAndSend(msg); err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true}
}

// AdminOrderEmail renders the new-order notice sent to the shop inbox.
func AdminOrderEmail(order *models.Order) (subject, body string) {
	subject = fmt.Sprintf("Нове замовлення %s", order.OrderNumber)

	var b strings.Builder
	fmt.Fprintf(&b, "Замовлення %s\n\n", order.OrderNumber)
	if order.Customer != nil {
		fmt.Fprintf(&b, "Клієнт: %s, %s\n", order.Customer.Name, order.Customer.Phone)
	}
	if order.Branch != nil {
		fmt.Fprintf(&b, "Магазин: %s\n", order.Branch.Name)
	}
	fmt.Fprintf(&b, "Спосіб отримання: %s\n", order.Fulfillment)
	if order.Fulfillment == models.FulfillmentDelivery {
		fmt.Fprintf(&b, "Адреса доставки: %s\n", order.DeliveryAddress)
	}
	b.WriteString("\nПозиції:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x %s %s = %s грн\n",
			item.ProductName, item.Quantity.String(), item.Unit, item.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nРазом: %s грн\n", order.Total.StringFixed(2))
	if order.Comment != "" {
		fmt.Fprintf(&b, "Коментар: %s\n", order.Comment)
	}
	return subject, b.String()
}

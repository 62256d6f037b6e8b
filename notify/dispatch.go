package notify

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

const dispatchTimeout = 30 * time.Second

// Dispatcher fans order notifications out to the configured channels in
// the background. The HTTP handler that triggers a dispatch responds
// before any channel outcome is known; failures are logged and never
// retried.
type Dispatcher struct {
	viber      *ViberSender
	email      *EmailSender
	adminEmail string
	logger     *logrus.Logger
}

func NewDispatcher(logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		viber:      NewViberSender(),
		email:      NewEmailSender(),
		adminEmail: strings.TrimSpace(os.Getenv("ORDER_NOTIFY_EMAIL")),
		logger:     logger,
	}
}

func (d *Dispatcher) OrderPlaced(order *models.Order) {
	go d.deliver(order, OrderPlacedMessage(order), true)
}

func (d *Dispatcher) OrderStatusChanged(order *models.Order) {
	go d.deliver(order, OrderStatusMessage(order), false)
}

func (d *Dispatcher) deliver(order *models.Order, viberText string, notifyAdmin bool) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if order.Customer != nil && d.viber.Configured() {
		if result := d.viber.Send(ctx, order.Customer.Phone, viberText); !result.Success {
			d.logger.WithFields(logrus.Fields{
				"order":   order.OrderNumber,
				"channel": "viber",
			}).Warn(result.Error)
		}
	}

	if notifyAdmin && d.adminEmail != "" && d.email.Configured() {
		subject, body := AdminOrderEmail(order)
		if result := d.email.Send(d.adminEmail, subject, body); !result.Success {
			d.logger.WithFields(logrus.Fields{
				"order":   order.OrderNumber,
				"channel": "email",
			}).Warn(result.Error)
		}
	}
}

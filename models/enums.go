package models

// Order lifecycle.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusPreparing  = "PREPARING"
	OrderStatusReady      = "READY"
	OrderStatusDelivering = "DELIVERING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

const (
	FulfillmentDelivery = "DELIVERY"
	FulfillmentPickup   = "PICKUP"
)

// Sync run lifecycle.
const (
	SyncRunStatusRunning = "running"
	SyncRunStatusSuccess = "success"
	SyncRunStatusPartial = "partial"
	SyncRunStatusFailed  = "failed"
)

const (
	SyncTriggeredManual = "manual"
	SyncTriggeredCLI    = "cli"
)

const (
	SyncKindFull      = "full"
	SyncKindInventory = "inventory"
	SyncKindImages    = "images"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Order struct {
	ID                int             `gorm:"primary_key" json:"id"`
	OrderNumber       string          `gorm:"uniqueIndex;size:32;not null" json:"order_number"`
	CustomerId        int             `gorm:"index;not null" json:"customer_id"`
	Customer          *Customer       `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	BranchId          int             `gorm:"index;not null" json:"branch_id"`
	Branch            *Branch         `gorm:"foreignKey:BranchId" json:"branch,omitempty"`
	Status            string          `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	Fulfillment       string          `gorm:"size:16;not null" json:"fulfillment"`
	DeliveryAddress   string          `gorm:"type:text" json:"delivery_address"`
	Comment           string          `gorm:"type:text" json:"comment"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	DeliveryFee       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"delivery_fee"`
	Total             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	Items             []OrderItem     `gorm:"foreignKey:OrderId" json:"items"`
	CreatedAt         time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	OrderId     int             `gorm:"index;not null" json:"order_id"`
	ProductId   int             `gorm:"index;not null" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Unit        string          `gorm:"size:16" json:"unit"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
}

type NewOrderItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

type NewOrder struct {
	CustomerName    string         `json:"customer_name" binding:"required"`
	CustomerPhone   string         `json:"customer_phone" binding:"required,uaphone"`
	CustomerEmail   string         `json:"customer_email" binding:"omitempty,email"`
	BranchId        int            `json:"branch_id" binding:"required"`
	Fulfillment     string         `json:"fulfillment" binding:"required,oneof=DELIVERY PICKUP"`
	DeliveryAddress string         `json:"delivery_address"`
	Comment         string         `json:"comment"`
	Items           []NewOrderItem `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatus struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID                int             `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	BranchId          int             `json:"branch_id"`
	BranchName        string          `json:"branch_name"`
	Status            string          `json:"status"`
	Fulfillment       string          `json:"fulfillment"`
	DeliveryAddress   string          `json:"delivery_address"`
	Comment           string          `json:"comment"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	Total             decimal.Decimal `json:"total"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	Items             []OrderItem     `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
}

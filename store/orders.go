package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

type OrderFilter struct {
	Status   string
	BranchId int
	Phone    string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// UpsertCustomerByPhone finds the customer with the normalized phone or
// creates one. Name and email are refreshed on every order.
func (s *Store) UpsertCustomerByPhone(ctx context.Context, name, phone, email string) (*models.Customer, error) {
	db := s.db.WithContext(ctx)

	var customer models.Customer
	err := db.Where("phone = ?", phone).Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			Name:  strings.TrimSpace(name),
			Phone: phone,
			Email: strings.TrimSpace(email),
		}
		if createErr := db.Create(&customer).Error; createErr != nil {
			return nil, createErr
		}
		return &customer, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": strings.TrimSpace(name)}
	if email = strings.TrimSpace(email); email != "" {
		updates["email"] = email
	}
	if err := db.Model(&customer).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// CountOrdersWithPrefix counts today's orders sharing the number prefix,
// used to pick the next sequence suffix.
func (s *Store) CountOrdersWithPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Order{}).
		Preload("Items").
		Preload("Customer").
		Preload("Branch").
		Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BranchId > 0 {
		query = query.Where("branch_id = ?", filter.BranchId)
	}
	if filter.Phone != "" {
		query = query.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("customers.phone = ?", filter.Phone)
	}
	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Preload("Branch").
		Where("id = ?", id).
		Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	err := db.Preload("Items").Preload("Customer").Preload("Branch").
		Where("id = ?", id).Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

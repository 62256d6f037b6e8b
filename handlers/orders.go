package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/store"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

const (
	deliveryLeadTime = 90 * time.Minute
	pickupLeadTime   = 30 * time.Minute
	openingHour      = 10
	closingHour      = 22
)

func (a *API) CreateOrder(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	phone, err := utils.NormalizePhone(input.CustomerPhone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	branch, err := a.store.GetBranch(ctx, input.BranchId)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateOrder", "get branch", input.BranchId, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create order"})
		return
	}
	if branch == nil || branch.IsActive == nil || !*branch.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch is not available"})
		return
	}
	if input.Fulfillment == models.FulfillmentDelivery {
		if branch.DeliveryAvailable == nil || !*branch.DeliveryAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch does not deliver"})
			return
		}
		if input.DeliveryAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery address is required"})
			return
		}
	}

	items, subtotal, err := a.buildOrderItems(ctx, input.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	siteConfig, err := a.store.GetSiteConfig(ctx)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateOrder", "load site config", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create order"})
		return
	}
	if siteConfig.MinOrderAmount.IsPositive() && subtotal.LessThan(siteConfig.MinOrderAmount) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("minimum order amount is %s", siteConfig.MinOrderAmount.StringFixed(2)),
		})
		return
	}

	deliveryFee := decimal.Zero
	if input.Fulfillment == models.FulfillmentDelivery {
		deliveryFee = siteConfig.DeliveryFee
		if siteConfig.FreeDeliveryFrom.IsPositive() && subtotal.GreaterThanOrEqual(siteConfig.FreeDeliveryFrom) {
			deliveryFee = decimal.Zero
		}
	}

	customer, err := a.store.UpsertCustomerByPhone(ctx, input.CustomerName, phone, input.CustomerEmail)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateOrder", "upsert customer", phone, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create order"})
		return
	}

	now := time.Now()
	orderNumber, err := a.nextOrderNumber(ctx, now)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateOrder", "generate order number", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create order"})
		return
	}

	order := models.Order{
		OrderNumber:       orderNumber,
		CustomerId:        customer.ID,
		BranchId:          branch.ID,
		Status:            models.OrderStatusPending,
		Fulfillment:       input.Fulfillment,
		DeliveryAddress:   input.DeliveryAddress,
		Comment:           input.Comment,
		Subtotal:          subtotal,
		DeliveryFee:       deliveryFee,
		Total:             subtotal.Add(deliveryFee),
		EstimatedDelivery: EstimatedReadyTime(now, input.Fulfillment),
		Items:             items,
	}
	if err := a.store.CreateOrder(ctx, &order); err != nil {
		config.LogError(a.logger, "handlers", "CreateOrder", "persist order", orderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create order"})
		return
	}

	order.Customer = customer
	order.Branch = branch
	a.dispatcher.OrderPlaced(&order)

	c.JSON(http.StatusCreated, toOrderResponse(&order))
}

// buildOrderItems snapshots the current product name/price into order
// lines so later catalog edits do not rewrite history.
func (a *API) buildOrderItems(ctx context.Context, inputs []models.NewOrderItem) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero

	for _, line := range inputs {
		if !line.Quantity.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("invalid quantity for product %d", line.ProductId)
		}
		product, err := a.store.GetProductRow(ctx, line.ProductId)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("cannot load product %d", line.ProductId)
		}
		if product == nil || product.IsActive == nil || !*product.IsActive {
			return nil, decimal.Zero, fmt.Errorf("product %d is not available", line.ProductId)
		}

		lineTotal := product.Price.Mul(line.Quantity)
		items = append(items, models.OrderItem{
			ProductId:   product.ID,
			ProductName: product.DisplayName,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Unit:        product.CustomUnit,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal, nil
}

// nextOrderNumber builds ORD + yymmddHHMM + a two-digit sequence within
// that minute.
func (a *API) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	prefix := "ORD" + now.Format("0601021504")
	count, err := a.store.CountOrdersWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%02d", prefix, count+1), nil
}

// EstimatedReadyTime adds the fulfillment lead time and clamps the result
// into shop working hours. Too early clamps to opening the same day, an
// estimate at or past the closing hour clamps to opening the next day.
func EstimatedReadyTime(now time.Time, fulfillment string) time.Time {
	lead := pickupLeadTime
	if fulfillment == models.FulfillmentDelivery {
		lead = deliveryLeadTime
	}

	estimated := now.Add(lead)
	switch {
	case estimated.Hour() < openingHour:
		return time.Date(estimated.Year(), estimated.Month(), estimated.Day(), openingHour, 0, 0, 0, estimated.Location())
	case estimated.Hour() >= closingHour:
		next := estimated.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), openingHour, 0, 0, 0, next.Location())
	}
	return estimated
}

func (a *API) ListOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Status: c.Query("status"),
		Phone:  c.Query("phone"),
		Limit:  50,
	}
	filter.BranchId, _ = strconv.Atoi(c.Query("branch_id"))
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 200 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.Status != "" && !models.ValidOrderStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	orders, err := a.store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		config.LogError(a.logger, "handlers", "ListOrders", "list orders", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list orders"})
		return
	}

	responses := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": responses})
}

func (a *API) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := a.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		config.LogError(a.logger, "handlers", "GetOrder", "get order", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (a *API) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var input models.UpdateOrderStatus
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	order, err := a.store.UpdateOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateOrderStatus", "update status", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	a.dispatcher.OrderStatusChanged(order)
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *models.Order) models.OrderResponse {
	resp := models.OrderResponse{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		BranchId:          order.BranchId,
		Status:            order.Status,
		Fulfillment:       order.Fulfillment,
		DeliveryAddress:   order.DeliveryAddress,
		Comment:           order.Comment,
		Subtotal:          order.Subtotal,
		DeliveryFee:       order.DeliveryFee,
		Total:             order.Total,
		EstimatedDelivery: order.EstimatedDelivery,
		Items:             order.Items,
		CreatedAt:         order.CreatedAt,
	}
	if order.Customer != nil {
		resp.CustomerName = order.Customer.Name
		resp.CustomerPhone = order.Customer.Phone
	}
	if order.Branch != nil {
		resp.BranchName = order.Branch.Name
	}
	return resp
}

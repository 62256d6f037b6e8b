package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

// ExportOrders streams the filtered order list as an XLSX workbook.
func (a *API) ExportOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Status: c.Query("status"),
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	orders, err := a.store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		config.LogError(a.logger, "handlers", "ExportOrders", "list orders", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot export orders"})
		return
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"

	headers := []string{"Number", "Date", "Customer", "Phone", "Branch", "Fulfillment", "Status", "Subtotal", "Delivery", "Total", "Comment"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			"",
			"",
			"",
			order.Fulfillment,
			order.Status,
			order.Subtotal.InexactFloat64(),
			order.DeliveryFee.InexactFloat64(),
			order.Total.InexactFloat64(),
			order.Comment,
		}
		if order.Customer != nil {
			values[2] = order.Customer.Name
			values[3] = order.Customer.Phone
		}
		if order.Branch != nil {
			values[4] = order.Branch.Name
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(a.logger, "handlers", "ExportOrders", "write workbook", filename, err)
	}
}

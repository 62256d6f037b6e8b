package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

type ProductFilter struct {
	CategoryId      int
	BranchId        int
	Search          string
	IncludeInactive bool
}

func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductResponse, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Product{}).Preload("Category")
	if !filter.IncludeInactive {
		query = query.Where("products.is_active = true")
	}
	if filter.CategoryId > 0 {
		query = query.Where("products.category_id = ?", filter.CategoryId)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("products.name LIKE ? OR products.display_name LIKE ?", like, like)
	}

	var products []models.Product
	if err := query.Order("products.sort_order asc, products.name asc").Find(&products).Error; err != nil {
		return nil, err
	}

	quantities, err := s.productQuantities(ctx, filter.BranchId)
	if err != nil {
		return nil, err
	}

	results := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		results = append(results, s.toProductResponse(&products[i], quantities))
	}
	return results, nil
}

func (s *Store) GetProduct(ctx context.Context, id int, branchId int) (*models.ProductResponse, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	quantities, err := s.productQuantities(ctx, branchId)
	if err != nil {
		return nil, err
	}
	resp := s.toProductResponse(&product, quantities)
	return &resp, nil
}

func (s *Store) GetProductRow(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, input *models.NewProduct) (*models.Product, error) {
	product := models.Product{
		CategoryId:    input.CategoryId,
		Name:          strings.TrimSpace(input.Name),
		DisplayName:   strings.TrimSpace(input.DisplayName),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		ImageUrl:      strings.TrimSpace(input.ImageUrl),
		IsActive:      input.IsActive,
		CustomUnit:    strings.TrimSpace(input.CustomUnit),
		QuantityStep:  input.QuantityStep,
		SortOrder:     input.SortOrder,
	}
	if product.DisplayName == "" {
		product.DisplayName = product.Name
	}
	if input.CustomQuantity != nil {
		product.CustomQuantity = decimal.NewNullDecimal(decimal.NewFromFloat(*input.CustomQuantity))
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int, input *models.NewProduct) (*models.Product, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	err := db.Where("id = ?", id).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"category_id":    input.CategoryId,
		"name":           strings.TrimSpace(input.Name),
		"display_name":   strings.TrimSpace(input.DisplayName),
		"description":    strings.TrimSpace(input.Description),
		"price":          input.Price,
		"original_price": input.OriginalPrice,
		"custom_unit":    strings.TrimSpace(input.CustomUnit),
		"sort_order":     input.SortOrder,
	}
	if input.ImageUrl != "" {
		updates["image_url"] = strings.TrimSpace(input.ImageUrl)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.CustomQuantity != nil {
		updates["custom_quantity"] = decimal.NewFromFloat(*input.CustomQuantity)
	}
	if input.QuantityStep != nil {
		updates["quantity_step"] = *input.QuantityStep
	}
	if err := db.Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertProduct writes one normalized remote product keyed by its external
// id. Display name and display image survive resyncs unless they still
// mirror the remote values.
func (s *Store) UpsertProduct(ctx context.Context, data *models.ProductSyncData) (*models.Product, error) {
	db := s.db.WithContext(ctx)

	attrsJSON, err := json.Marshal(data.Attributes)
	if err != nil {
		return nil, err
	}

	var existing models.Product
	err = db.Where("poster_product_id = ?", data.PosterProductId).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		product := models.Product{
			PosterProductId: data.PosterProductId,
			IngredientId:    data.IngredientId,
			CategoryId:      data.CategoryId,
			Name:            data.Name,
			DisplayName:     data.Name,
			Description:     data.Description,
			Price:           data.Price,
			OriginalPrice:   data.Price,
			ImageUrl:        data.ImageUrl,
			IsActive:        boolPtr(data.IsActive),
			AttributesJSON:  attrsJSON,
			CustomQuantity:  data.CustomQuantity,
			CustomUnit:      data.CustomUnit,
			QuantityStep:    data.QuantityStep,
		}
		if createErr := db.Create(&product).Error; createErr != nil {
			return nil, createErr
		}
		return &product, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"ingredient_id":   data.IngredientId,
		"category_id":     data.CategoryId,
		"name":            data.Name,
		"price":           data.Price,
		"original_price":  data.Price,
		"is_active":       data.IsActive,
		"attributes_json": attrsJSON,
		"custom_unit":     data.CustomUnit,
	}
	if existing.DisplayName == "" || existing.DisplayName == existing.Name {
		updates["display_name"] = data.Name
	}
	if data.ImageUrl != "" {
		updates["image_url"] = data.ImageUrl
	}
	if data.CustomQuantity.Valid {
		updates["custom_quantity"] = data.CustomQuantity.Decimal
	}
	if data.QuantityStep != nil {
		updates["quantity_step"] = *data.QuantityStep
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// ActiveProducts returns the id and external id of every product that is
// still marked active, used to zero out stock for items missing from a
// full snapshot.
func (s *Store) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Select("id", "poster_product_id", "ingredient_id", "image_url").
		Where("is_active = true").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) UpdateProductImage(ctx context.Context, productId int, imageUrl string) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productId).
		Update("image_url", imageUrl).Error
}

// productQuantities loads stock keyed by product id. A positive branchId
// restricts the view to that branch, otherwise quantities are summed
// across branches.
func (s *Store) productQuantities(ctx context.Context, branchId int) (map[int]models.ProductInventory, error) {
	db := s.db.WithContext(ctx)

	type row struct {
		ProductId int
		Quantity  decimal.Decimal
		Unit      string
	}

	query := db.Model(&models.ProductInventory{}).
		Select("product_id, SUM(quantity) AS quantity, MAX(unit) AS unit").
		Group("product_id")
	if branchId > 0 {
		query = query.Where("branch_id = ?", branchId)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	quantities := make(map[int]models.ProductInventory, len(rows))
	for _, r := range rows {
		quantities[r.ProductId] = models.ProductInventory{
			ProductId: r.ProductId,
			Quantity:  r.Quantity,
			Unit:      r.Unit,
		}
	}
	return quantities, nil
}

func (s *Store) toProductResponse(p *models.Product, quantities map[int]models.ProductInventory) models.ProductResponse {
	resp := models.ProductResponse{
		ID:              p.ID,
		PosterProductId: p.PosterProductId,
		IngredientId:    p.IngredientId,
		CategoryId:      p.CategoryId,
		Name:            p.Name,
		DisplayName:     p.DisplayName,
		Description:     p.Description,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		ImageUrl:        p.ImageUrl,
		DisplayImageUrl: p.DisplayImageUrl,
		IsActive:        p.IsActive != nil && *p.IsActive,
		Attributes:      p.Attributes(),
		CustomQuantity:  p.CustomQuantity,
		CustomUnit:      p.CustomUnit,
		QuantityStep:    p.QuantityStep,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.DisplayImageUrl == "" {
		resp.DisplayImageUrl = p.ImageUrl
	}
	if inv, ok := quantities[p.ID]; ok {
		resp.Quantity = inv.Quantity
		resp.Unit = inv.Unit
		resp.Available = inv.Quantity.IsPositive()
	}
	if resp.Unit == "" {
		resp.Unit = p.Attributes().IngredientUnit
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.DisplayName
		resp.Category = &models.CategorySummary{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			DisplayName: p.Category.DisplayName,
		}
	}
	return resp
}

package postersync

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

// Store is the persistence surface the engine writes through. The
// concrete adapter lives in the store package; tests inject fakes.
type Store interface {
	UpsertCategory(ctx context.Context, data *models.CategorySyncData) (*models.Category, error)
	FallbackCategory(ctx context.Context) (*models.Category, error)
	UpsertProduct(ctx context.Context, data *models.ProductSyncData) (*models.Product, error)
	ActiveProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductImage(ctx context.Context, productId int, imageUrl string) error
	UpsertBranch(ctx context.Context, data *models.BranchSyncData) (*models.Branch, error)
	UpsertInventory(ctx context.Context, productId, branchId int, quantity decimal.Decimal, unit string) error
}

// ImageResolver is the image-cache surface the engine needs.
type ImageResolver interface {
	Resolve(ctx context.Context, remoteProductId string, hasRemotePhoto bool, knownRemoteUrl string) string
	ResolveBatch(ctx context.Context, requests []ImageRequest) map[string]string
}

// Branch contact defaults applied when the remote storage record carries
// no address or phone.
const (
	defaultBranchPhone        = "+38 (097) 324 46 68"
	defaultBranchAddress      = "м. Київ"
	defaultBranchWorkingHours = "10:00-22:00 щодня"
	defaultBranchLatitude     = 50.4501
	defaultBranchLongitude    = 30.5234
)

// remoteImageHost is where relative photo paths from the product feed
// resolve.
const remoteImageHost = "https://joinposter.com"

type Engine struct {
	catalog Catalog
	store   Store
	images  ImageResolver
	logger  *logrus.Logger
}

func NewEngine(catalog Catalog, store Store, images ImageResolver, logger *logrus.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		store:   store,
		images:  images,
		logger:  logger,
	}
}

// Summary aggregates one run. Counts are rows touched per phase; Errors
// collects per-item failures that did not stop the run.
type Summary struct {
	Categories int      `json:"categories"`
	Products   int      `json:"products"`
	Branches   int      `json:"branches"`
	Inventory  int      `json:"inventory"`
	Images     int      `json:"images"`
	Errors     []string `json:"errors"`
}

func (s *Summary) recordError(format string, args ...interface{}) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// RunFull executes the four reconciliation phases in dependency order.
// Per-item failures are collected in the summary; a failed fetch of a
// phase's own collection aborts that phase and everything after it, and
// is returned as the run error alongside the partial summary.
func (e *Engine) RunFull(ctx context.Context) (*Summary, error) {
	summary := &Summary{Errors: []string{}}

	catByRemote, err := e.syncCategories(ctx, summary)
	if err != nil {
		return summary, err
	}

	productsByIngredient, err := e.syncProducts(ctx, summary, catByRemote)
	if err != nil {
		return summary, err
	}

	branches, err := e.syncBranches(ctx, summary)
	if err != nil {
		return summary, err
	}

	e.syncInventory(ctx, summary, branches, productsByIngredient)
	return summary, nil
}

// RunInventory refreshes stock only. Unlike a full run it leaves rows for
// products missing from the snapshot untouched, because without the
// product phase there is no authoritative product set to zero against.
func (e *Engine) RunInventory(ctx context.Context) (*Summary, error) {
	summary := &Summary{Errors: []string{}}

	products, err := e.store.ActiveProducts(ctx)
	if err != nil {
		return summary, err
	}
	byIngredient := make(map[string]models.Product, len(products))
	for _, p := range products {
		if p.IngredientId != "" {
			byIngredient[p.IngredientId] = p
		}
	}

	storages, err := e.catalog.FetchStorages(ctx)
	if err != nil {
		return summary, err
	}

	for _, storage := range storages {
		storageId := storage.StorageId.String()
		if storageId == "" {
			continue
		}
		branch, err := e.store.UpsertBranch(ctx, &models.BranchSyncData{
			PosterStorageId: storageId,
			Name:            strings.TrimSpace(storage.StorageName),
			Address:         defaultBranchAddress,
			Phone:           defaultBranchPhone,
			WorkingHours:    defaultBranchWorkingHours,
			Latitude:        defaultBranchLatitude,
			Longitude:       defaultBranchLongitude,
		})
		if err != nil {
			summary.recordError("branch %s: %v", storage.StorageName, err)
			continue
		}

		leftovers, err := e.catalog.FetchStorageLeftovers(ctx, storageId)
		if err != nil {
			summary.recordError("inventory for branch %s: %v", branch.Name, err)
			continue
		}

		for _, leftover := range leftovers {
			product, ok := byIngredient[leftover.IngredientId.String()]
			if !ok {
				continue
			}
			quantity := parseQuantity(leftover.Left.String())
			unit := DisplayUnit(Classify(product.Name, leftover.IngredientUnit), leftover.IngredientUnit)
			if err := e.store.UpsertInventory(ctx, product.ID, branch.ID, quantity, unit); err != nil {
				summary.recordError("inventory %s @ %s: %v", leftover.IngredientName, branch.Name, err)
				continue
			}
			summary.Inventory++
		}
	}
	return summary, nil
}

// RunImages re-resolves images for active products that still have none.
func (e *Engine) RunImages(ctx context.Context) (*Summary, error) {
	summary := &Summary{Errors: []string{}}

	products, err := e.store.ActiveProducts(ctx)
	if err != nil {
		return summary, err
	}

	byRemoteId := make(map[string]models.Product, len(products))
	requests := make([]ImageRequest, 0, len(products))
	for _, p := range products {
		if p.ImageUrl != "" || p.PosterProductId == "" {
			continue
		}
		byRemoteId[p.PosterProductId] = p
		requests = append(requests, ImageRequest{
			RemoteProductId: p.PosterProductId,
			HasRemotePhoto:  true,
		})
	}

	resolved := e.images.ResolveBatch(ctx, requests)
	for remoteId, path := range resolved {
		product := byRemoteId[remoteId]
		if err := e.store.UpdateProductImage(ctx, product.ID, path); err != nil {
			summary.recordError("image for product %s: %v", remoteId, err)
			continue
		}
		summary.Images++
	}
	return summary, nil
}

func (e *Engine) syncCategories(ctx context.Context, summary *Summary) (map[string]*models.Category, error) {
	remote, err := e.catalog.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	byRemote := make(map[string]*models.Category, len(remote))
	for _, rc := range remote {
		remoteId := rc.CategoryId.String()
		name := strings.TrimSpace(rc.CategoryName)
		if remoteId == "" || name == "" {
			continue
		}

		category, err := e.store.UpsertCategory(ctx, &models.CategorySyncData{
			PosterCategoryId: remoteId,
			Name:             name,
			DisplayName:      name,
			SortOrder:        parseSortOrder(rc.SortOrder.String()),
			IsActive:         !rc.Hidden.True(),
		})
		if err != nil {
			summary.recordError("category %s: %v", name, err)
			continue
		}
		byRemote[remoteId] = category
		summary.Categories++
	}
	return byRemote, nil
}

func (e *Engine) syncProducts(ctx context.Context, summary *Summary, catByRemote map[string]*models.Category) (map[string]models.Product, error) {
	remote, err := e.catalog.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	byIngredient := make(map[string]models.Product)
	for _, rp := range remote {
		remoteId := rp.ProductId.String()
		name := strings.TrimSpace(rp.ProductName)
		if remoteId == "" || name == "" {
			continue
		}

		category, err := e.resolveCategory(ctx, catByRemote, rp.MenuCategoryId.String())
		if err != nil {
			summary.recordError("product %s: %v", name, err)
			continue
		}
		if category == nil {
			e.logger.WithField("product", name).Warn("no category available, product skipped")
			continue
		}

		class := Classify(name, rp.IngredientUnit)
		price := NormalizePrice(rp.Price.First(), class)

		imagePath := e.images.Resolve(ctx, remoteId, rp.HasPhoto(), rp.RemoteImageURL(remoteImageHost))

		data := &models.ProductSyncData{
			PosterProductId: remoteId,
			IngredientId:    rp.IngredientId.String(),
			CategoryId:      category.ID,
			Name:            name,
			Price:           price,
			ImageUrl:        imagePath,
			IsActive:        !rp.Out.True() && !rp.Hidden.True(),
			Attributes: models.ProductAttributes{
				IngredientUnit: strings.TrimSpace(rp.IngredientUnit),
				IngredientId:   rp.IngredientId.String(),
				Out:            rp.Out.String(),
				Photo:          strings.TrimSpace(rp.Photo),
				PhotoOrigin:    strings.TrimSpace(rp.PhotoOrigin),
			},
		}
		if step := RetailDefaults(class); step != nil {
			data.CustomQuantity = decimal.NewNullDecimal(step.Quantity)
			data.CustomUnit = step.Unit
			quantityStep := step.Step
			data.QuantityStep = &quantityStep
		}

		product, err := e.store.UpsertProduct(ctx, data)
		if err != nil {
			summary.recordError("product %s: %v", name, err)
			continue
		}
		if product.IngredientId != "" {
			byIngredient[product.IngredientId] = *product
		}
		summary.Products++
	}
	return byIngredient, nil
}

// resolveCategory maps the remote category reference to a local category,
// falling back to the lowest-sort-order existing category when the
// reference is unknown. A nil result means no category exists at all and
// the product must be skipped.
func (e *Engine) resolveCategory(ctx context.Context, catByRemote map[string]*models.Category, remoteCategoryId string) (*models.Category, error) {
	if category, ok := catByRemote[remoteCategoryId]; ok {
		return category, nil
	}
	return e.store.FallbackCategory(ctx)
}

func (e *Engine) syncBranches(ctx context.Context, summary *Summary) ([]models.Branch, error) {
	remote, err := e.catalog.FetchStorages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch storages: %w", err)
	}

	branches := make([]models.Branch, 0, len(remote))
	for _, rs := range remote {
		remoteId := rs.StorageId.String()
		name := strings.TrimSpace(rs.StorageName)
		if remoteId == "" {
			continue
		}
		if name == "" {
			name = "Opillia Shop " + remoteId
		}

		address := strings.TrimSpace(rs.StorageAddress)
		if address == "" {
			address = defaultBranchAddress
		}

		branch, err := e.store.UpsertBranch(ctx, &models.BranchSyncData{
			PosterStorageId: remoteId,
			Name:            name,
			Address:         address,
			Phone:           defaultBranchPhone,
			WorkingHours:    defaultBranchWorkingHours,
			Latitude:        defaultBranchLatitude,
			Longitude:       defaultBranchLongitude,
		})
		if err != nil {
			summary.recordError("branch %s: %v", name, err)
			continue
		}
		branches = append(branches, *branch)
		summary.Branches++
	}
	return branches, nil
}

// syncInventory rewrites the stock snapshot for every branch synced this
// run. Every phase-2 product gets a row per branch; products missing from
// the branch's snapshot are written with zero quantity so stale stock
// never lingers. A branch whose snapshot fetch fails keeps its previous
// rows.
func (e *Engine) syncInventory(ctx context.Context, summary *Summary, branches []models.Branch, productsByIngredient map[string]models.Product) {
	for _, branch := range branches {
		leftovers, err := e.catalog.FetchStorageLeftovers(ctx, branch.PosterStorageId)
		if err != nil {
			summary.recordError("inventory for branch %s: %v", branch.Name, err)
			continue
		}

		stock := make(map[string]RemoteLeftover, len(leftovers))
		for _, leftover := range leftovers {
			if id := leftover.IngredientId.String(); id != "" {
				stock[id] = leftover
			}
		}

		for ingredientId, product := range productsByIngredient {
			quantity := decimal.Zero
			unit := ""
			if leftover, ok := stock[ingredientId]; ok {
				quantity = parseQuantity(leftover.Left.String())
				unit = DisplayUnit(Classify(product.Name, leftover.IngredientUnit), leftover.IngredientUnit)
			}
			if err := e.store.UpsertInventory(ctx, product.ID, branch.ID, quantity, unit); err != nil {
				summary.recordError("inventory %s @ %s: %v", product.Name, branch.Name, err)
				continue
			}
			summary.Inventory++
		}
	}
}

func parseSortOrder(raw string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

// parseQuantity clamps junk and negative leftovers to zero.
func parseQuantity(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

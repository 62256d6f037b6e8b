package postersync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
)

type fakeCatalog struct {
	categories []RemoteCategory
	products   []RemoteProduct
	storages   []RemoteStorage
	leftovers  map[string][]RemoteLeftover

	categoriesErr error
	productsErr   error
	storagesErr   error
	leftoversErr  map[string]error
}

func (f *fakeCatalog) FetchCategories(ctx context.Context) ([]RemoteCategory, error) {
	return f.categories, f.categoriesErr
}

func (f *fakeCatalog) FetchProducts(ctx context.Context) ([]RemoteProduct, error) {
	return f.products, f.productsErr
}

func (f *fakeCatalog) FetchStorages(ctx context.Context) ([]RemoteStorage, error) {
	return f.storages, f.storagesErr
}

func (f *fakeCatalog) FetchStorageLeftovers(ctx context.Context, storageId string) ([]RemoteLeftover, error) {
	if err, ok := f.leftoversErr[storageId]; ok {
		return nil, err
	}
	return f.leftovers[storageId], nil
}

type inventoryKey struct {
	productId int
	branchId  int
}

type fakeStore struct {
	nextId     int
	categories map[string]*models.Category
	products   map[string]*models.Product
	branches   map[string]*models.Branch
	inventory  map[inventoryKey]models.ProductInventory

	failProductNames map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextId:           1,
		categories:       map[string]*models.Category{},
		products:         map[string]*models.Product{},
		branches:         map[string]*models.Branch{},
		inventory:        map[inventoryKey]models.ProductInventory{},
		failProductNames: map[string]bool{},
	}
}

func (f *fakeStore) id() int {
	id := f.nextId
	f.nextId++
	return id
}

func (f *fakeStore) UpsertCategory(ctx context.Context, data *models.CategorySyncData) (*models.Category, error) {
	if existing, ok := f.categories[data.PosterCategoryId]; ok {
		existing.Name = data.Name
		existing.SortOrder = data.SortOrder
		return existing, nil
	}
	category := &models.Category{
		ID:               f.id(),
		PosterCategoryId: data.PosterCategoryId,
		Name:             data.Name,
		DisplayName:      data.DisplayName,
		SortOrder:        data.SortOrder,
	}
	f.categories[data.PosterCategoryId] = category
	return category, nil
}

func (f *fakeStore) FallbackCategory(ctx context.Context) (*models.Category, error) {
	var fallback *models.Category
	for _, category := range f.categories {
		if fallback == nil || category.SortOrder < fallback.SortOrder {
			fallback = category
		}
	}
	return fallback, nil
}

func (f *fakeStore) UpsertProduct(ctx context.Context, data *models.ProductSyncData) (*models.Product, error) {
	if f.failProductNames[data.Name] {
		return nil, fmt.Errorf("forced failure for %s", data.Name)
	}
	if existing, ok := f.products[data.PosterProductId]; ok {
		existing.Name = data.Name
		existing.CategoryId = data.CategoryId
		existing.Price = data.Price
		return existing, nil
	}
	product := &models.Product{
		ID:              f.id(),
		PosterProductId: data.PosterProductId,
		IngredientId:    data.IngredientId,
		CategoryId:      data.CategoryId,
		Name:            data.Name,
		Price:           data.Price,
		ImageUrl:        data.ImageUrl,
	}
	f.products[data.PosterProductId] = product
	return product, nil
}

func (f *fakeStore) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) UpdateProductImage(ctx context.Context, productId int, imageUrl string) error {
	for _, p := range f.products {
		if p.ID == productId {
			p.ImageUrl = imageUrl
			return nil
		}
	}
	return errors.New("product not found")
}

func (f *fakeStore) UpsertBranch(ctx context.Context, data *models.BranchSyncData) (*models.Branch, error) {
	if existing, ok := f.branches[data.PosterStorageId]; ok {
		existing.Name = data.Name
		return existing, nil
	}
	branch := &models.Branch{
		ID:              f.id(),
		PosterStorageId: data.PosterStorageId,
		Name:            data.Name,
		Address:         data.Address,
		Phone:           data.Phone,
	}
	f.branches[data.PosterStorageId] = branch
	return branch, nil
}

func (f *fakeStore) UpsertInventory(ctx context.Context, productId, branchId int, quantity decimal.Decimal, unit string) error {
	f.inventory[inventoryKey{productId, branchId}] = models.ProductInventory{
		ProductId: productId,
		BranchId:  branchId,
		Quantity:  quantity,
		Unit:      unit,
	}
	return nil
}

type noopImages struct{}

func (noopImages) Resolve(ctx context.Context, remoteProductId string, hasRemotePhoto bool, knownRemoteUrl string) string {
	return ""
}

func (noopImages) ResolveBatch(ctx context.Context, requests []ImageRequest) map[string]string {
	return map[string]string{}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []RemoteCategory{
			{CategoryId: "10", CategoryName: "Пиво", SortOrder: "1"},
			{CategoryId: "20", CategoryName: "Сири", SortOrder: "2"},
		},
		products: []RemoteProduct{
			{ProductId: "100", ProductName: "Пиво Опілля", MenuCategoryId: "10", Price: PriceTiers{"1": "15500"}, IngredientId: "i100", IngredientUnit: "кг"},
			{ProductId: "200", ProductName: "Сир твердий", MenuCategoryId: "20", Price: PriceTiers{"1": "15500"}, IngredientId: "i200", IngredientUnit: "кг"},
		},
		storages: []RemoteStorage{
			{StorageId: "1", StorageName: "Магазин 1"},
		},
		leftovers: map[string][]RemoteLeftover{
			"1": {
				{IngredientId: "i100", Left: "12.5", IngredientUnit: "л"},
			},
		},
	}
}

func newTestEngine(catalog Catalog, st Store) *Engine {
	return NewEngine(catalog, st, noopImages{}, config.GetLogger())
}

func TestRunFullCounts(t *testing.T) {
	st := newFakeStore()
	engine := newTestEngine(testCatalog(), st)

	summary, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if summary.Categories != 2 || summary.Products != 2 || summary.Branches != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	// Both phase-2 products get a row for the one branch.
	if summary.Inventory != 2 {
		t.Fatalf("inventory count = %d, want 2", summary.Inventory)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("errors = %v", summary.Errors)
	}

	beer := st.products["100"]
	if !beer.Price.Equal(decimal.RequireFromString("155")) {
		t.Errorf("beverage price = %s, want 155", beer.Price)
	}
	cheese := st.products["200"]
	if !cheese.Price.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("weight price = %s, want 15.5", cheese.Price)
	}

	branchId := st.branches["1"].ID
	if got := st.inventory[inventoryKey{beer.ID, branchId}].Unit; got != "л" {
		t.Errorf("beverage stock unit = %q, want л", got)
	}
	if got := st.inventory[inventoryKey{cheese.ID, branchId}].Unit; got != "" {
		t.Errorf("missing-stock unit = %q, want empty", got)
	}
}

func TestRunFullIdempotence(t *testing.T) {
	st := newFakeStore()
	engine := newTestEngine(testCatalog(), st)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstBeerId := st.products["100"].ID

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(st.products) != 2 {
		t.Fatalf("products after second run = %d, want 2", len(st.products))
	}
	if st.products["100"].ID != firstBeerId {
		t.Fatalf("second run created a new row: id %d != %d", st.products["100"].ID, firstBeerId)
	}
}

func TestUpsertInPlaceOnRename(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	engine := newTestEngine(catalog, st)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	originalId := st.categories["10"].ID

	catalog.categories[0].CategoryName = "Крафтове пиво"
	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if st.categories["10"].ID != originalId {
		t.Fatal("rename duplicated the category row")
	}
	if st.categories["10"].Name != "Крафтове пиво" {
		t.Fatalf("category name = %q", st.categories["10"].Name)
	}
}

func TestCategoryFallback(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	// Product references a category the remote feed never mentions.
	catalog.products = append(catalog.products, RemoteProduct{
		ProductId: "300", ProductName: "Чіпси", MenuCategoryId: "999",
		Price: PriceTiers{"1": "4500"}, IngredientId: "i300",
	})
	engine := newTestEngine(catalog, st)

	summary, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if summary.Products != 3 {
		t.Fatalf("products = %d, want 3", summary.Products)
	}

	orphan := st.products["300"]
	lowestSort := st.categories["10"]
	if orphan.CategoryId != lowestSort.ID {
		t.Fatalf("orphan category = %d, want lowest-sort category %d", orphan.CategoryId, lowestSort.ID)
	}
}

func TestCategorySkipWhenNoneExist(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	catalog.categories = nil
	engine := newTestEngine(catalog, st)

	summary, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if summary.Products != 0 {
		t.Fatalf("products = %d, want 0 when no category exists", summary.Products)
	}
	if len(st.products) != 0 {
		t.Fatal("category-less products were persisted")
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("skip counted as error: %v", summary.Errors)
	}
}

func TestInventoryZeroing(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	engine := newTestEngine(catalog, st)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	beer := st.products["100"]
	cheese := st.products["200"]
	branch := st.branches["1"]

	key := inventoryKey{beer.ID, branch.ID}
	if !st.inventory[key].Quantity.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("beer quantity = %s", st.inventory[key].Quantity)
	}

	// Next snapshot drops the beer entirely.
	catalog.leftovers["1"] = nil
	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !st.inventory[key].Quantity.IsZero() {
		t.Fatalf("stale quantity survived: %s", st.inventory[key].Quantity)
	}
	cheeseKey := inventoryKey{cheese.ID, branch.ID}
	if !st.inventory[cheeseKey].Quantity.IsZero() {
		t.Fatalf("cheese quantity = %s, want 0", st.inventory[cheeseKey].Quantity)
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	st := newFakeStore()
	st.failProductNames["Сир твердий"] = true
	engine := newTestEngine(testCatalog(), st)

	summary, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if summary.Products != 1 {
		t.Fatalf("products = %d, want 1", summary.Products)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", summary.Errors)
	}
	if !strings.Contains(summary.Errors[0], "Сир твердий") {
		t.Fatalf("error does not identify the failed item: %q", summary.Errors[0])
	}
	if _, ok := st.products["100"]; !ok {
		t.Fatal("sibling product was not persisted")
	}
}

func TestPhaseFetchFailureAborts(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	catalog.categoriesErr = fmt.Errorf("%w: timeout", ErrRemoteUnavailable)
	engine := newTestEngine(catalog, st)

	summary, err := engine.RunFull(context.Background())
	if err == nil {
		t.Fatal("RunFull should fail when the categories fetch fails")
	}
	if !errors.Is(err, ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
	if summary.Products != 0 || len(st.products) != 0 {
		t.Fatal("later phases ran after an aborted fetch")
	}
}

func TestBranchStockFetchFailureSkipsBranchOnly(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	catalog.storages = append(catalog.storages, RemoteStorage{StorageId: "2", StorageName: "Магазин 2"})
	catalog.leftovers["2"] = []RemoteLeftover{{IngredientId: "i200", Left: "3", IngredientUnit: "кг"}}
	catalog.leftoversErr = map[string]error{"1": fmt.Errorf("%w: 502", ErrRemoteProtocol)}
	engine := newTestEngine(catalog, st)

	summary, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("errors = %v, want one for the failed branch", summary.Errors)
	}

	branch1 := st.branches["1"]
	branch2 := st.branches["2"]
	for key := range st.inventory {
		if key.branchId == branch1.ID {
			t.Fatal("failed branch got inventory rows written")
		}
	}
	cheese := st.products["200"]
	if !st.inventory[inventoryKey{cheese.ID, branch2.ID}].Quantity.Equal(decimal.RequireFromString("3")) {
		t.Fatal("healthy branch inventory missing")
	}
}

func TestRunInventoryLeavesMissingUntouched(t *testing.T) {
	st := newFakeStore()
	catalog := testCatalog()
	engine := newTestEngine(catalog, st)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("full run: %v", err)
	}
	beer := st.products["100"]
	branch := st.branches["1"]
	key := inventoryKey{beer.ID, branch.ID}

	// Inventory-only refresh with an empty snapshot must not zero rows.
	catalog.leftovers["1"] = nil
	if _, err := engine.RunInventory(context.Background()); err != nil {
		t.Fatalf("inventory run: %v", err)
	}
	if !st.inventory[key].Quantity.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("inventory-only run zeroed a row: %s", st.inventory[key].Quantity)
	}
}

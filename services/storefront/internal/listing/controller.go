package listing

import (
	"context"
	"sync"

	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
	"github.com/keamoral/ouijagames/services/storefront/internal/observable"
	"go.uber.org/zap"
)

// CatalogAPI is the part of the catalog client the controller uses
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int) (bool, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

const (
	msgDeleteRefused    = "could not delete product"
	msgCategoriesPrefix = "failed to load categories: "
)

// Controller holds the fetched product collection and the category list.
// Products is only ever written by LoadProducts, always as a full replace.
type Controller struct {
	api CatalogAPI
	log *zap.Logger

	Products   *observable.Value[[]catalog.Product]
	Categories *observable.Value[[]catalog.Category]
	Selected   *observable.Value[*catalog.Product]
	Loading    *observable.Value[bool]
	Err        *observable.Value[string]

	categoriesOnce sync.Once
}

// NewController creates a controller with empty state
func NewController(api CatalogAPI, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		api:        api,
		log:        log,
		Products:   observable.New[[]catalog.Product](nil),
		Categories: observable.New[[]catalog.Category](nil),
		Selected:   observable.New[*catalog.Product](nil),
		Loading:    observable.New(false),
		Err:        observable.New(""),
	}
}

// Start performs the initial product load followed by the one-time category load
func (c *Controller) Start(ctx context.Context) {
	c.LoadProducts(ctx)
	c.LoadCategories(ctx)
}

// LoadProducts replaces the collection with the server's. On failure the
// previous collection stays in place and Err is set.
func (c *Controller) LoadProducts(ctx context.Context) {
	c.Loading.Set(true)
	defer c.Loading.Set(false)
	c.Err.Set("")

	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.log.Warn("Failed to load products", zap.Error(err))
		c.Err.Set(catalog.Describe(err))
		return
	}

	c.log.Debug("Products loaded", zap.Int("count", len(products)))
	c.Products.Set(products)
}

// LoadProduct sets Selected to the product, or nil when the server does
// not have it
func (c *Controller) LoadProduct(ctx context.Context, id int) {
	c.Loading.Set(true)
	defer c.Loading.Set(false)
	c.Err.Set("")

	product, err := c.api.GetProduct(ctx, id)
	if err != nil {
		c.log.Warn("Failed to load product", zap.Int("product_id", id), zap.Error(err))
		c.Err.Set(catalog.Describe(err))
		return
	}
	c.Selected.Set(product)
}

// DeleteProduct removes a product and reloads the list once on success.
// No local removal happens; a refused delete leaves the list untouched.
func (c *Controller) DeleteProduct(ctx context.Context, id int) bool {
	c.Loading.Set(true)
	defer c.Loading.Set(false)
	c.Err.Set("")

	ok, err := c.api.DeleteProduct(ctx, id)
	switch {
	case err != nil:
		c.log.Warn("Failed to delete product", zap.Int("product_id", id), zap.Error(err))
		c.Err.Set(catalog.Describe(err))
		return false
	case !ok:
		c.log.Info("Delete refused by catalog", zap.Int("product_id", id))
		c.Err.Set(msgDeleteRefused)
		return false
	}

	c.LoadProducts(ctx)
	return true
}

// LoadCategories fetches the categories once per controller. Later calls
// are no-ops.
func (c *Controller) LoadCategories(ctx context.Context) {
	c.categoriesOnce.Do(func() {
		categories, err := c.api.ListCategories(ctx)
		if err != nil {
			c.log.Warn("Failed to load categories", zap.Error(err))
			c.Err.Set(msgCategoriesPrefix + catalog.Describe(err))
			return
		}
		c.Categories.Set(categories)
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/repository"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/validator"
	"github.com/keamoral/ouijagames/services/catalog-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       int    `json:"price" validate:"gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Img         string `json:"img" validate:"required"`
	CategoryID  uint   `json:"categoriaId" validate:"required"`
}

// CatalogHandler serves products and categories
type CatalogHandler struct {
	repo    repository.Repository
	metrics *prometheus.Metrics
}

// NewCatalogHandler creates the product and category handlers
func NewCatalogHandler(repo repository.Repository, metrics *prometheus.Metrics) *CatalogHandler {
	return &CatalogHandler{repo: repo, metrics: metrics}
}

// ListProducts handles retrieving all products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	h.metrics.RecordProductOperation("list")

	defer h.metrics.TrackDBOperation("query")(time.Now())
	products, err := h.repo.ListProducts(c.Request().Context())
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid product id", zap.String("product_id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	h.metrics.RecordProductOperation("get")

	defer h.metrics.TrackDBOperation("query")(time.Now())
	product, err := h.repo.GetProduct(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("Product not found", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if err != nil {
		log.Error("Failed to get product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve product"})
	}

	h.metrics.RecordProductView(strconv.FormatUint(uint64(id), 10))
	log.Info("Product retrieved successfully",
		zap.Uint("product_id", id),
		zap.String("product_name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Product validation failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validator.Message(err)})
	}

	log.Info("Product creation request",
		zap.String("name", req.Name),
		zap.Int("price", req.Price),
		zap.Uint("category_id", req.CategoryID))

	if _, err := h.repo.GetCategory(ctx, req.CategoryID); err != nil {
		log.Warn("Unknown category", zap.Uint("category_id", req.CategoryID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Img:         req.Img,
		CategoryID:  req.CategoryID,
	}

	defer h.metrics.TrackDBOperation("insert")(time.Now())
	err := h.repo.CreateProduct(ctx, &product)
	if errors.Is(err, repository.ErrDuplicate) {
		log.Warn("Product with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this name already exists"})
	}
	if err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	productID := strconv.FormatUint(uint64(product.ID), 10)
	h.metrics.RecordProductOperation("create")
	h.metrics.UpdateProductInventory(productID, product.Category.Name, float64(product.Stock))

	log.Info("Product created successfully",
		zap.String("product_id", productID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// DeleteProduct handles deleting a product (soft delete on postgres)
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := parseID(c)
	if err != nil {
		log.Warn("Invalid product id", zap.String("product_id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	defer h.metrics.TrackDBOperation("delete")(time.Now())
	err = h.repo.DeleteProduct(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Product not found for deletion", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if err != nil {
		log.Error("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	productID := strconv.FormatUint(uint64(id), 10)
	h.metrics.RecordProductOperation("delete")
	h.metrics.DropProductInventory(productID)

	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

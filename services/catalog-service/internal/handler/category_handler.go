package handler

import (
	"errors"
	"net/http"

	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/repository"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/validator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion"`
}

// ListCategories retrieves all product categories in creation order
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)
	h.metrics.RecordCategoryOperation("list")

	categories, err := h.repo.ListCategories(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a new product category
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validator.Message(err)})
	}

	category := model.Category{Name: req.Name, Description: req.Description}
	err := h.repo.CreateCategory(c.Request().Context(), &category)
	if errors.Is(err, repository.ErrDuplicate) {
		log.Warn("Category with this name already exists", zap.String("name", req.Name))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Category with this name already exists"})
	}
	if err != nil {
		log.Error("Failed to create category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	h.metrics.RecordCategoryOperation("create")
	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/refracc/de-store/internal/model"
	"github.com/refracc/de-store/pkg/logger"
	"github.com/shopspring/decimal"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductHandler provides pass-through catalog CRUD.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler wires the catalog CRUD onto the database handle.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	SKU         string          `json:"sku" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock"`
}

// ListProducts handles retrieving all products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing products")

	var products []model.Product
	result := h.db.Order("id ASC").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new product")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "price and stock must not be negative",
		})
	}

	log.Info("Product creation request",
		zap.String("name", req.Name),
		zap.String("sku", req.SKU),
		zap.String("price", req.Price.StringFixed(2)))

	// Check if product with SKU already exists
	var count int64
	h.db.Model(&model.Product{}).Where("sku = ?", req.SKU).Count(&count)
	if count > 0 {
		log.Warn("Product with this SKU already exists", zap.String("sku", req.SKU))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Product with this SKU already exists",
		})
	}

	// Create the product
	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	result := h.db.Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.String("sku", req.SKU),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create product",
		})
	}

	log.Info("Product created successfully",
		zap.String("product_id", strconv.FormatUint(uint64(product.ID), 10)),
		zap.String("name", product.Name),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Updating product", zap.String("product_id", id))

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "price and stock must not be negative",
		})
	}

	// Find existing product
	var product model.Product
	result := h.db.First(&product, id)
	if result.Error != nil {
		log.Error("Product not found for update",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	// Check if SKU is changed and if new SKU already exists
	if req.SKU != product.SKU {
		var count int64
		h.db.Model(&model.Product{}).Where("sku = ? AND id != ?", req.SKU, id).Count(&count)
		if count > 0 {
			log.Warn("Product with this SKU already exists",
				zap.String("sku", req.SKU))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Product with this SKU already exists",
			})
		}
	}

	// Update fields
	product.Name = req.Name
	product.Description = req.Description
	product.SKU = req.SKU
	product.Price = req.Price
	product.Stock = req.Stock

	result = h.db.Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update product",
		})
	}

	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product (soft delete)
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Deleting product", zap.String("product_id", id))

	result := h.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete product",
		})
	}

	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion",
			zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}

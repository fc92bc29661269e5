package handler

import (
	"net/http"

	"github.com/refracc/de-store/internal/model"
	"github.com/refracc/de-store/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerHandler provides pass-through customer CRUD. Loyalty enrollment is
// deliberately not writable here; that goes through the engine.
type CustomerHandler struct {
	db *gorm.DB
}

// NewCustomerHandler wires the customer CRUD onto the database handle.
func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email"`
}

// ListCustomers retrieves all customers
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Listing customers")

	var customers []model.Customer
	result := h.db.Order("id ASC").Find(&customers)
	if result.Error != nil {
		log.Error("Failed to retrieve customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve customers",
		})
	}

	log.Info("Customers retrieved successfully", zap.Int("count", len(customers)))
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Getting customer by ID", zap.String("customer_id", id))

	var customer model.Customer
	result := h.db.First(&customer, id)
	if result.Error != nil {
		log.Error("Customer not found",
			zap.String("customer_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer adds a new customer
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new customer")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name is required",
		})
	}

	customer := model.Customer{
		Name:  req.Name,
		Email: req.Email,
	}

	result := h.db.Create(&customer)
	if result.Error != nil {
		log.Error("Failed to create customer",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create customer",
		})
	}

	log.Info("Customer created successfully",
		zap.Uint("customer_id", customer.ID),
		zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer updates a customer's contact details
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Updating customer", zap.String("customer_id", id))

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var customer model.Customer
	result := h.db.First(&customer, id)
	if result.Error != nil {
		log.Error("Customer not found for update",
			zap.String("customer_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	customer.Name = req.Name
	customer.Email = req.Email

	result = h.db.Save(&customer)
	if result.Error != nil {
		log.Error("Failed to update customer",
			zap.String("customer_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update customer",
		})
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer (soft delete)
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Deleting customer", zap.String("customer_id", id))

	result := h.db.Delete(&model.Customer{}, id)
	if result.Error != nil {
		log.Error("Failed to delete customer",
			zap.String("customer_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete customer",
		})
	}

	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Customer deleted successfully",
	})
}

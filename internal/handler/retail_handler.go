package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/refracc/de-store/internal/engine"
	"github.com/refracc/de-store/internal/middleware"
	"github.com/refracc/de-store/internal/model"
	"github.com/refracc/de-store/pkg/logger"
	"github.com/refracc/de-store/prometheus"
	"github.com/shopspring/decimal"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RetailHandler exposes the retail transaction engine over HTTP.
type RetailHandler struct {
	engine *engine.Engine
}

// NewRetailHandler wires the engine into the HTTP layer.
func NewRetailHandler(e *engine.Engine) *RetailHandler {
	return &RetailHandler{engine: e}
}

// PurchaseRequest identifies who buys what.
type PurchaseRequest struct {
	CustomerID uint `json:"customer_id" validate:"required"`
	ProductID  uint `json:"product_id" validate:"required"`
}

// PriceChangeRequest carries a new unit price.
type PriceChangeRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// PromotionRequest carries the promotion type to apply.
type PromotionRequest struct {
	Type string `json:"type" validate:"required"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrOutOfStock),
		errors.Is(err, engine.ErrAlreadyEnrolled):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInconsistentState):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

// Purchase handles a purchase of one unit of a product
func (h *RetailHandler) Purchase(c echo.Context) error {
	log := logger.FromEcho(c)

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.CustomerID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and product_id are required"})
	}

	receipt, err := h.engine.Purchase(c.Request().Context(), req.CustomerID, req.ProductID)
	if err != nil {
		if errors.Is(err, engine.ErrOutOfStock) {
			prometheus.RecordPurchase("out_of_stock")
			prometheus.OutOfStockCounter.Inc()
			log.Warn("Purchase rejected, product out of stock",
				zap.Uint("customer_id", req.CustomerID),
				zap.Uint("product_id", req.ProductID))
		} else {
			prometheus.RecordPurchase("error")
			log.Error("Purchase failed",
				zap.Uint("customer_id", req.CustomerID),
				zap.Uint("product_id", req.ProductID),
				zap.Error(err))
		}
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}

	prometheus.RecordPurchase("success")
	return c.JSON(http.StatusCreated, receipt)
}

// CheckLoyaltyEligibility reports whether a customer qualifies for the scheme
func (h *RetailHandler) CheckLoyaltyEligibility(c echo.Context) error {
	log := logger.FromEcho(c)

	customerID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	eligible, err := h.engine.CheckLoyaltyEligibility(c.Request().Context(), customerID)
	if err != nil {
		log.Error("Eligibility check failed",
			zap.Uint("customer_id", customerID),
			zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"customer_id": customerID, "eligible": eligible})
}

// EnrollLoyalty places a customer on the loyalty scheme. The consent prompt
// lives with the front end; this endpoint is the confirmed enrollment.
func (h *RetailHandler) EnrollLoyalty(c echo.Context) error {
	log := logger.FromEcho(c)

	customerID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	if err := h.engine.EnrollLoyalty(c.Request().Context(), customerID); err != nil {
		if errors.Is(err, engine.ErrAlreadyEnrolled) {
			log.Warn("Customer already enrolled", zap.Uint("customer_id", customerID))
		} else {
			log.Error("Enrollment failed", zap.Uint("customer_id", customerID), zap.Error(err))
		}
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}

	prometheus.LoyaltyEnrollmentsCounter.Inc()
	return c.JSON(http.StatusOK, echo.Map{"customer_id": customerID, "loyalty_enrolled": true})
}

// LowStockProducts lists product IDs at or below the stock threshold
func (h *RetailHandler) LowStockProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	threshold := engine.DefaultLowStockThreshold
	if v := c.QueryParam("threshold"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid threshold"})
		}
		threshold = parsed
	}

	ids, err := h.engine.LowStockProducts(c.Request().Context(), threshold)
	if err != nil {
		log.Error("Low stock listing failed", zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"threshold": threshold, "product_ids": ids})
}

// TriggerRestock restocks every out-of-stock product to a full case
func (h *RetailHandler) TriggerRestock(c echo.Context) error {
	log := logger.FromEcho(c)

	ids, err := h.engine.Restock(c.Request().Context())
	if err != nil {
		log.Error("Restock failed", zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}

	prometheus.RestockedProductsCounter.Add(float64(len(ids)))
	return c.JSON(http.StatusOK, echo.Map{"restocked_product_ids": ids, "restock_quantity": engine.RestockQuantity})
}

// MonthlyReport returns the rolling one-month trading summary
func (h *RetailHandler) MonthlyReport(c echo.Context) error {
	log := logger.FromEcho(c)

	report, err := h.engine.MonthlyReport(c.Request().Context(), time.Now())
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	if report == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "no purchases recorded in the last month"})
	}
	return c.JSON(http.StatusOK, report)
}

// RecentTransactions lists the latest purchases, newest first
func (h *RetailHandler) RecentTransactions(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = parsed
	}

	summaries, err := h.engine.RecentTransactions(c.Request().Context(), limit)
	if err != nil {
		log.Error("Transaction listing failed", zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetProductDetail returns a product with its active promotion
func (h *RetailHandler) GetProductDetail(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	detail, err := h.engine.GetProduct(c.Request().Context(), productID)
	if err != nil {
		log.Error("Product lookup failed", zap.Uint("product_id", productID), zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

// ChangePrice updates a product's unit price, gated on the caller's role
func (h *RetailHandler) ChangePrice(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req PriceChangeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	role, _ := middleware.RoleFromContext(c)
	if err := h.engine.ChangePrice(c.Request().Context(), role, productID, req.Price); err != nil {
		log.Warn("Price change failed",
			zap.Uint("product_id", productID),
			zap.String("role", role),
			zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"product_id": productID, "price": req.Price})
}

// ApplyPromotion attaches a promotion to a product
func (h *RetailHandler) ApplyPromotion(c echo.Context) error {
	log := logger.FromEcho(c)

	productID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req PromotionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	promoType, err := model.ParsePromotionType(req.Type)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	id, err := h.engine.ApplyPromotion(c.Request().Context(), productID, promoType)
	if err != nil {
		log.Error("Promotion application failed",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"promotion_id": id, "product_id": productID, "type": promoType})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/dto"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
)

// inventoryHandler exposes denomination stock and inventory-aware helpers.
type inventoryHandler struct {
	inventory portssvc.InventoryValidatorSvcFacade
	stock     portsrepo.InventorySource
}

func newInventoryHandler(inventory portssvc.InventoryValidatorSvcFacade, stock portsrepo.InventorySource) *inventoryHandler {
	return &inventoryHandler{inventory: inventory, stock: stock}
}

// registerInventoryRoutes registers routes related to denomination inventory.
func registerInventoryRoutes(rg *gin.RouterGroup, inventory portssvc.InventoryValidatorSvcFacade, stock portsrepo.InventorySource) {
	h := newInventoryHandler(inventory, stock)

	inv := rg.Group("/inventory")
	{
		inv.GET("/:currency", h.getStock)
		inv.POST("/validate", h.validateLeg)
		inv.POST("/auto-adjust", h.autoAdjust)
	}
}

// getStock returns the current note counts for one currency.
func (h *inventoryHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currency := domain.CurrencyCode(c.Param("currency"))
	if !currency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency: " + string(currency)})
		return
	}

	stock, err := h.stock.GetDenominationStock(c.Request.Context(), currency)
	if err != nil {
		logger.Error("Failed to load denomination stock",
			slog.String("currency", string(currency)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory"})
		return
	}
	c.JSON(http.StatusOK, dto.DenominationStockResponse{Currency: string(currency), Stock: stock})
}

// validateLeg reports per-denomination shortfalls for a proposed cash leg.
func (h *inventoryHandler) validateLeg(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransactionLegDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for inventory validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	validation, err := h.inventory.Validate(c.Request.Context(), req.ToDomain(domain.LegOutput))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryValidationResponse(validation))
}

// autoAdjust proposes a composition bounded by available stock. Fails closed
// when stock cannot cover the full amount.
func (h *inventoryHandler) autoAdjust(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransactionLegDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for auto-adjust", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	composition, err := h.inventory.AutoAdjustToInventory(c.Request.Context(), req.ToDomain(domain.LegOutput))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AutoAdjustResponse{Composition: map[string]int64(composition)})
}

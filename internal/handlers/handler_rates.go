package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/dto"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
)

// ratesHandler exposes the resolver's active rate snapshot and rate
// administration.
type ratesHandler struct {
	rates portssvc.RateResolverSvcFacade
	store portsrepo.RateStore
}

func newRatesHandler(rates portssvc.RateResolverSvcFacade, store portsrepo.RateStore) *ratesHandler {
	return &ratesHandler{rates: rates, store: store}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rates portssvc.RateResolverSvcFacade, store portsrepo.RateStore) {
	h := newRatesHandler(rates, store)
	rg.GET("/rates", h.listRates)
	rg.PUT("/rates", h.saveRate)
}

// listRates returns all active rate records.
func (h *ratesHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	records, err := h.rates.ListActiveRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list active rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateRecordResponse(records))
}

// saveRate creates or updates the rate record for a pair and denomination.
func (h *ratesHandler) saveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rate save", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	record := req.ToDomain()
	if !record.FromCurrency.Valid() || !record.ToCurrency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency pair"})
		return
	}

	record.RateID = uuid.NewString()
	now := time.Now()
	record.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     req.Operator,
		LastUpdatedAt: now,
		LastUpdatedBy: req.Operator,
	}

	if err := h.store.SaveExchangeRate(c.Request.Context(), record); err != nil {
		respondEngineError(c, err)
		return
	}

	logger.Info("Rate record saved",
		slog.String("from", string(record.FromCurrency)),
		slog.String("to", string(record.ToCurrency)),
		slog.String("denomination", record.Denomination),
	)
	c.JSON(http.StatusOK, dto.ToRateRecordResponse(record))
}

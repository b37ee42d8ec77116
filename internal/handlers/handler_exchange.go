package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/seoulfx/exchange_shop_backend/internal/dto"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
)

// exchangeHandler handles HTTP requests for quoting, previewing and executing
// compound exchanges.
type exchangeHandler struct {
	legs     portssvc.LegCalculatorSvcFacade
	workflow portssvc.WorkflowSvcFacade
}

func newExchangeHandler(legs portssvc.LegCalculatorSvcFacade, workflow portssvc.WorkflowSvcFacade) *exchangeHandler {
	return &exchangeHandler{legs: legs, workflow: workflow}
}

// registerExchangeRoutes registers routes for the exchange workflow.
func registerExchangeRoutes(rg *gin.RouterGroup, svc *portssvc.ServiceContainer, executeLimiter gin.HandlerFunc) {
	h := newExchangeHandler(svc.Legs, svc.Workflow)

	exchange := rg.Group("/exchange")
	{
		exchange.POST("/quote", h.quote)
		exchange.POST("/recalculate", h.recalculate)
		exchange.POST("/classify", h.classify)

		sessions := exchange.Group("/sessions")
		{
			sessions.POST("", h.startSession)
			sessions.GET("/:id", h.getSession)
			sessions.POST("/:id/advance", executeLimiter, h.advanceSession)
			sessions.POST("/:id/cancel", h.cancelSession)
			sessions.POST("/:id/rollback", h.rollbackSession)
		}
	}
}

// quote derives the missing counterpart amount for a source leg.
func (h *exchangeHandler) quote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for quote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	source := req.Source.ToDomain(domain.LegInput)
	target := domain.TransactionLeg{
		Role:     domain.LegOutput,
		Kind:     domain.LegKind(req.TargetKind),
		Currency: domain.CurrencyCode(req.TargetCurrency),
	}

	derived, err := h.legs.DeriveAmount(c.Request.Context(), source, target)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(derived))
}

// recalculate re-derives the first output leg of an edited request.
func (h *exchangeHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompoundTransactionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recalculate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.legs.Recalculate(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompoundRequestDTO(updated))
}

// classify previews the risk assessment without starting a session.
func (h *exchangeHandler) classify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompoundTransactionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for classify", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	assessment, err := h.workflow.Classify(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRiskResponse(assessment))
}

// startSession decomposes the request into a reviewable workflow session.
func (h *exchangeHandler) startSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompoundTransactionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for session start", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	domainReq := req.ToDomain()
	domainReq.RequestID = uuid.NewString()

	session, err := h.workflow.Start(c.Request.Context(), domainReq)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	logger.Info("Workflow session created",
		slog.String("session_id", session.SessionID),
		slog.String("risk_level", string(session.Risk.Level)),
	)
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// getSession returns the current session snapshot.
func (h *exchangeHandler) getSession(c *gin.Context) {
	session, err := h.workflow.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// advanceSession moves the session forward, executing on EXECUTED.
func (h *exchangeHandler) advanceSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdvanceSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for session advance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session, err := h.workflow.Advance(c.Request.Context(), c.Param("id"), domain.WorkflowState(req.State))
	if err != nil {
		if errors.Is(err, apperrors.ErrPartialExecution) && session != nil {
			// Execution errors always state how many records took effect
			// before offering rollback.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   err.Error(),
				"session": dto.ToSessionResponse(session),
			})
			return
		}
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// cancelSession discards a session before execution.
func (h *exchangeHandler) cancelSession(c *gin.Context) {
	if err := h.workflow.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// rollbackSession confirms the compensating cancellation proposed after a
// partial execution failure.
func (h *exchangeHandler) rollbackSession(c *gin.Context) {
	result, err := h.workflow.Rollback(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrRollbackFailed) && result != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    err.Error(),
				"reversed": dto.ToRollbackResponse(result),
			})
			return
		}
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRollbackResponse(result))
}

// respondEngineError maps engine error taxonomy onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrDenominationMismatch),
		errors.Is(err, apperrors.ErrPercentageValidation),
		errors.Is(err, apperrors.ErrRateNotFound),
		errors.Is(err, services.ErrNoInputLegs),
		errors.Is(err, services.ErrNoOutputLegs),
		errors.Is(err, services.ErrUnknownCurrency),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrUnknownLegPairing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInventoryShortfall):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrApprovalRequired),
		errors.Is(err, services.ErrExecutionStarted),
		errors.Is(err, services.ErrNoRollbackProposed),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled engine error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

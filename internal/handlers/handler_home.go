package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/seoulfx/exchange_shop_backend/internal/dto"
)

// getHome reports the server status.
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Exchange Shop Backend API v1"})
}

// getCurrencies lists the supported currencies with their denomination ladders.
func getCurrencies(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToListCurrencyResponse(domain.SupportedCurrencies()))
}

// registerHomeRoutes registers the status and currency catalog routes.
func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("/", getHome)
	group.GET("/currencies", getCurrencies)
}

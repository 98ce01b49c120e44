package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocktrack/api/internal/middleware"
	"stocktrack/api/internal/models"
	"stocktrack/api/internal/repository"
	"stocktrack/api/internal/service"
)

func callerFrom(c *gin.Context) (service.Caller, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized: User info missing"})
		return service.Caller{}, false
	}
	return service.Caller{
		UserID: claims.UserID,
		Role:   models.UserRole(claims.Role),
		Branch: claims.Branch,
	}, true
}

func (h HandlerSet) ListStocks(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	stocks, err := h.stockService.List(c.Request.Context(), caller)
	if err != nil {
		h.log.Error().Err(err).Str("branch", caller.Branch).Msg("list stocks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error listing stocks"})
		return
	}

	c.JSON(http.StatusOK, stocks)
}

type createStockRequest struct {
	ItemName string `json:"itemName" binding:"required"`
	// required rejects the zero value, so a quantity of 0 reads as missing.
	Quantity int `json:"quantity" binding:"required"`
	// A client-supplied location is accepted but ignored: stock is always
	// created in the caller's branch.
	Location string `json:"location"`
}

func (h HandlerSet) CreateStock(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req createStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "All fields required"})
		return
	}

	stock, err := h.stockService.Create(c.Request.Context(), caller, service.CreateStockInput{
		ItemName: req.ItemName,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("create stock failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error creating stock"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":   "Stock added",
		"stock": stock,
	})
}

type updateStockRequest struct {
	ItemName *string `json:"itemName"`
	Quantity *int    `json:"quantity" binding:"omitempty,min=0"`
	Location *string `json:"location"`
}

func (h HandlerSet) UpdateStock(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	stock, err := h.stockService.Update(c.Request.Context(), caller, c.Param("id"), service.UpdateStockInput{
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Stock not found"})
		case errors.Is(err, service.ErrStockForbidden):
			c.JSON(http.StatusForbidden, gin.H{"msg": "Not authorized to update this stock"})
		case errors.Is(err, service.ErrLocationForbidden):
			c.JSON(http.StatusForbidden, gin.H{"msg": "Only admin can update location"})
		case errors.Is(err, service.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid location"})
		default:
			h.log.Error().Err(err).Msg("update stock failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error updating stock"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Stock updated",
		"stock": stock,
	})
}

func (h HandlerSet) DeleteStock(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	err := h.stockService.Delete(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrStockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Stock not found in your branch"})
			return
		}
		h.log.Error().Err(err).Msg("delete stock failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error deleting stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Stock deleted"})
}

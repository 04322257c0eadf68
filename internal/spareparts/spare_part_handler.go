package spareparts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type SparePartHandler struct {
	service *LedgerService
}

func NewSparePartHandler(service *LedgerService) *SparePartHandler {
	return &SparePartHandler{service: service}
}

func (h *SparePartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/spare-parts", h.ListParts)
	router.GET("/spare-parts/:id", h.GetPart)
	router.GET("/spare-parts/by-number/:partNumber", h.GetPartByNumber)
	router.POST("/spare-parts", h.CreatePart)
	router.POST("/spare-parts/reserve", h.ReserveStock)
	router.PATCH("/spare-parts/:id/thresholds", h.AdjustThresholds)
	router.GET("/spare-parts/low-stock", h.LowStockReport)
}

func (h *SparePartHandler) ListParts(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if rawCategory := c.Query("category"); rawCategory != "" {
		parts, err := h.service.GetByCategory(companyID, rawCategory)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to list spare parts", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, parts)
		return
	}

	parts, err := h.service.ListParts(companyID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to list spare parts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, parts)
}

func (h *SparePartHandler) GetPart(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	partID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spare part id"})
		return
	}

	part, err := h.service.GetPart(companyID, partID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to get spare part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (h *SparePartHandler) GetPartByNumber(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	part, err := h.service.GetPartByNumber(companyID, c.Param("partNumber"))
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to get spare part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (h *SparePartHandler) CreatePart(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.SparePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	part, warnings, err := h.service.CreateSparePart(c.Request.Context(), companyID, req)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to create spare part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"part": part, "warnings": warnings})
}

func (h *SparePartHandler) ReserveStock(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Lines []models.PlannedComponent `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.service.ReserveStock(c.Request.Context(), companyID, req.Lines); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to reserve stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reserved": len(req.Lines)})
}

func (h *SparePartHandler) AdjustThresholds(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	partID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid spare part id"})
		return
	}

	var req models.ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.service.AdjustThresholds(companyID, partID, req); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to adjust thresholds", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"part_id": partID})
}

func (h *SparePartHandler) LowStockReport(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	parts, err := h.service.LowStockReport(companyID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to build low stock report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, parts)
}

package assets

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type AssetHandler struct {
	service *AssetService
}

func NewAssetHandler(service *AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assets", h.ListAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.POST("/assets", h.CreateAsset)
	router.PATCH("/assets/:id/status", h.TransitionStatus)
	router.GET("/assets/:id/eligibility", h.CheckEligibility)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	asset, err := h.service.GetAsset(companyID, assetID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assets, err := h.service.ListAssets(companyID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.CreateAsset(companyID, req)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to create asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) TransitionStatus(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	newStatus, err := metadata.NewAssetStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.TransitionStatus(companyID, assetID, newStatus); err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to change asset status", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": newStatus})
}

func (h *AssetHandler) CheckEligibility(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	eligible, err := h.service.IsEligibleForDecomposition(companyID, assetID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to check eligibility", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset_id": assetID, "eligible": eligible})
}

package decomposition

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type RequestHandler struct {
	service *RequestService
}

func NewRequestHandler(service *RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/decompositions", h.ListRequests)
	router.GET("/decompositions/:id", h.GetRequest)
	router.POST("/decompositions", h.CreateRequest)
	router.POST("/decompositions/:id/approve", security.Authorize("moderator"), h.ApproveRequest)
	router.POST("/decompositions/:id/reject", security.Authorize("moderator"), h.RejectRequest)
	router.POST("/decompositions/:id/execute", security.Authorize("moderator"), h.ExecuteRequest)
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.CreateDecompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.service.Create(c.Request.Context(), companyID, userID, req)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to create decomposition request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	request, err := h.service.GetRequest(companyID, c.Param("id"))
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to get decomposition request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	requests, err := h.service.ListRequests(companyID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to list decomposition requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	request, err := h.service.Approve(c.Request.Context(), companyID, c.Param("id"), userID)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to approve request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) RejectRequest(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.service.Reject(c.Request.Context(), companyID, c.Param("id"), req.Reason)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to reject request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) ExecuteRequest(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Execute(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to execute request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

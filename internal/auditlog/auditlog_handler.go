package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

var auditedResourceTypes = map[string]bool{
	"asset":                 true,
	"spare_part":            true,
	"decomposition_request": true,
	"user":                  true,
}

// ResourceLogReader is the read side of the audit trail.
type ResourceLogReader interface {
	GetResourceLog(companyID, id int, resourceType string) ([]models.AuditLog, error)
}

type AuditLogHandler struct {
	repository ResourceLogReader
}

func NewHandler(repository ResourceLogReader) *AuditLogHandler {
	return &AuditLogHandler{repository: repository}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs/:resourceType/:id", security.Authorize("moderator"), h.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	resourceType := c.Param("resourceType")
	if !auditedResourceTypes[resourceType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown resource type"})
		return
	}

	resourceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource id"})
		return
	}

	logs, err := h.repository.GetResourceLog(companyID, resourceID, resourceType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

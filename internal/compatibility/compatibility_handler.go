package compatibility

import (
	"net/http"

	"github.com/gin-gonic/gin"

	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

type CompatibilityHandler struct {
	matcher *Matcher
}

func NewCompatibilityHandler(matcher *Matcher) *CompatibilityHandler {
	return &CompatibilityHandler{matcher: matcher}
}

func (h *CompatibilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/compatibility/targets", h.FindTargets)
	router.POST("/compatibility/parts", h.FindParts)
}

func (h *CompatibilityHandler) FindTargets(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var spec TargetSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	matches, err := h.matcher.FindCompatibleTargets(companyID, spec)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to find compatible assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, matches)
}

func (h *CompatibilityHandler) FindParts(c *gin.Context) {
	companyID, err := security.GetCompanyIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var spec PartSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	matches, err := h.matcher.FindCompatibleParts(companyID, spec)
	if err != nil {
		c.JSON(custom_error.HTTPStatus(err), gin.H{"error": "Unable to find compatible parts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, matches)
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/anggaSaputra16/management-assets-sub004/internal/core/container"
	"github.com/anggaSaputra16/management-assets-sub004/internal/middleware"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/security"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.AssetHandler.RegisterRoutes(protectedRoutes)
	container.SparePartHandler.RegisterRoutes(protectedRoutes)
	container.RequestHandler.RegisterRoutes(protectedRoutes)
	container.CompatibilityHandler.RegisterRoutes(protectedRoutes)
	container.UserHandler.RegisterRoutes(protectedRoutes)
	container.AuditLogHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}

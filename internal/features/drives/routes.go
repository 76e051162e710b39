package drives

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := NewHandler(service)

	drives := router.Group("/drives")
	{
		drives.GET("", handler.List)
		drives.GET("/upcoming", handler.Upcoming)
		drives.GET("/:id", handler.Get)

		authed := drives.Group("")
		authed.Use(middleware.Auth())
		{
			authed.POST("", handler.Create)
			authed.POST("/:id/join", handler.Join)
			authed.PUT("/:id/status", handler.UpdateStatus)
			authed.DELETE("/:id", handler.Delete)
		}
	}
}

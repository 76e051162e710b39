package users

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/middleware"
	"github.com/xyz-asif/civicgo/internal/pkg/cloudinary"
)

func RegisterRoutes(router *gin.RouterGroup, service *Service, images *cloudinary.Service) {
	handler := NewHandler(service, images)

	users := router.Group("/users")
	{
		users.GET("/leaderboard", handler.Leaderboard)

		me := users.Group("/me")
		me.Use(middleware.Auth())
		{
			me.GET("", handler.GetMe)
			me.PUT("", handler.UpdateMe)
			me.POST("/avatar", handler.UploadAvatar)
			me.GET("/rank", handler.MyRank)
		}
	}
}

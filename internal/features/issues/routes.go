package issues

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/middleware"
	"github.com/xyz-asif/civicgo/internal/pkg/cloudinary"
	"github.com/xyz-asif/civicgo/internal/pkg/ratelimit"
)

func RegisterRoutes(router *gin.RouterGroup, service *Service, uploader *cloudinary.Service) {
	handler := NewHandler(service, uploader)

	// 5 new issues per user per hour
	reportLimiter := ratelimit.New(5, time.Hour)
	reportLimiter.StartCleanup(10 * time.Minute)

	issues := router.Group("/issues")
	{
		issues.GET("", handler.List)
		issues.GET("/live", handler.Live)
		issues.GET("/:id", handler.Get)
		issues.GET("/:id/comments", handler.ListComments)

		authed := issues.Group("")
		authed.Use(middleware.Auth())
		{
			authed.POST("", ratelimit.UserBasedMiddleware(reportLimiter), handler.Report)
			authed.GET("/mine", handler.Mine)
			authed.PUT("/:id/status", handler.ChangeStatus)
			authed.POST("/:id/verify", handler.Verify)
			authed.POST("/:id/upvote", handler.Upvote)
			authed.POST("/:id/comments", handler.AddComment)
			authed.POST("/:id/images", handler.UploadImage)
			authed.DELETE("/:id/images", handler.DeleteImage)
			authed.DELETE("/:id", handler.Delete)
		}
	}
}

package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/config"
	"github.com/xyz-asif/civicgo/internal/pkg/logger"
)

// RegisterRoutes wires the sign-in endpoints. Firebase init failure is not
// fatal; Google sign-in still works without it.
func RegisterRoutes(router *gin.RouterGroup, profiles Profiles, cfg *config.Config) {
	firebaseClient, err := InitFirebase(cfg)
	if err != nil {
		logger.Warn("firebase init failed, firebase sign-in disabled: %v", err)
		firebaseClient = nil
	}

	handler := NewHandler(profiles, firebaseClient, cfg)

	auth := router.Group("/auth")
	{
		auth.POST("/google", handler.GoogleLogin)
		auth.POST("/firebase", handler.FirebaseLogin)
	}
}

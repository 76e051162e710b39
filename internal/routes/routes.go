package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/civicgo/internal/config"
	"github.com/xyz-asif/civicgo/internal/features/auth"
	"github.com/xyz-asif/civicgo/internal/features/drives"
	"github.com/xyz-asif/civicgo/internal/features/issues"
	"github.com/xyz-asif/civicgo/internal/features/users"
	"github.com/xyz-asif/civicgo/internal/pkg/cache"
	"github.com/xyz-asif/civicgo/internal/pkg/cloudinary"
	"github.com/xyz-asif/civicgo/internal/pkg/connectivity"
	"github.com/xyz-asif/civicgo/internal/pkg/logger"
)

// noopImageStore keeps best-effort deletions harmless when Cloudinary is not
// configured.
type noopImageStore struct{}

func (noopImageStore) DeleteByURL(ctx context.Context, imageURL string) error { return nil }

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	// API v1 group
	api := router.Group("/api/v1")

	cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	if err != nil {
		logger.Warn("cloudinary disabled: %v", err)
		cld = nil
	}

	redisCache, err := cache.New(cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis cache disabled: %v", err)
		redisCache = nil
	}

	// Points ledger, shared by every feature that grants points
	usersRepo := users.NewRepository(db)
	ledger := users.NewService(usersRepo, redisCache)

	var imageStore issues.ImageStore = noopImageStore{}
	if cld != nil {
		imageStore = cld
	}

	online := connectivity.NewPingChecker(db.Client())

	issuesService := issues.NewService(issues.NewRepository(db), ledger, imageStore, online)
	drivesService := drives.NewService(drives.NewRepository(db), ledger)

	// Register feature routes
	auth.RegisterRoutes(api, ledger, cfg)
	users.RegisterRoutes(api, ledger, cld)
	issues.RegisterRoutes(api, issuesService, cld)
	drives.RegisterRoutes(api, drivesService)
}

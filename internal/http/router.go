package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/highlights-notion-sync/internal/database"
)

// RouterConfig contains the dependencies needed to create the HTTP router.
type RouterConfig struct {
	Runner   SyncRunner
	History  RunHistory
	Database *database.Database // nil when run history is disabled
	Version  string
}

// NewRouter creates the status server router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	syncController := NewSyncController(cfg.Runner, cfg.History)
	api := router.Group("/api/sync")
	{
		api.GET("/status", syncController.Status)
		api.POST("/run", syncController.Trigger)
	}

	return router
}

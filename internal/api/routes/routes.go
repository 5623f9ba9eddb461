package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "audio-pipeline/docs" // swagger spec
	"audio-pipeline/internal/api/handlers"
)

// Handlers holds every handler the router needs
type Handlers struct {
	Audio    *handlers.AudioHandler
	Files    *handlers.FilesHandler
	Process  *handlers.ProcessHandler
	Log      *handlers.LogHandler
	Backends *handlers.BackendsHandler
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/audio/*filename", h.Audio.ServeLocal)
	router.GET("/azure-audio/:filename", h.Audio.ServeRemote)

	api := router.Group("/api")
	{
		api.GET("/local-files", h.Files.ListLocal)
		api.GET("/azure-files", h.Files.ListRemote)
		api.POST("/process-audio", h.Process.Process)
		api.POST("/log", h.Log.Log)
		api.GET("/backends", h.Backends.List)
	}
}

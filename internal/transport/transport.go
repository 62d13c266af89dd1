package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autoinspect/inspection-service/internal/transport/middleware"
)

func InitRoutes(inspectionHandler *InspectionHandler, photoHandler *PhotoHandler, analysisHandler *AnalysisHandler) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(90 * time.Second))

	// API routes
	api := router.Group("/api/v1")
	{
		inspections := api.Group("/inspections")
		{
			inspections.POST("", inspectionHandler.CreateInspection)
			inspections.GET("", inspectionHandler.GetAllInspections)
			inspections.GET("/:id", inspectionHandler.GetInspection)
			inspections.DELETE("/:id", inspectionHandler.DeleteInspection)

			inspections.POST("/:id/photos", photoHandler.UploadPhoto)
			inspections.POST("/:id/analyze", analysisHandler.StartAnalysis)
			inspections.GET("/:id/report", analysisHandler.GetReport)
		}

		photos := api.Group("/photos")
		{
			photos.GET("/:id/file", photoHandler.GetPhotoFile)
			photos.GET("/:id/thumbnail", photoHandler.GetThumbnail)
			photos.GET("/:id/annotated", photoHandler.GetAnnotated)
			photos.DELETE("/:id", photoHandler.DeletePhoto)
		}
	}

	// Web interface routes
	router.Static("/static", "./web/static")
	router.LoadHTMLGlob("web/templates/*")

	router.GET("/", func(c *gin.Context) {
		c.HTML(200, "index.html", nil)
	})

	router.GET("/inspection/:id", func(c *gin.Context) {
		c.HTML(200, "inspection.html", gin.H{
			"inspectionID": c.Param("id"),
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "inspection-service",
		})
	})

	return router
}

package routes

import (
	"showup-server/internal/app"
	"showup-server/internal/handlers"
	"showup-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, a *app.App) {
	appointmentHandler := handlers.NewAppointmentHandler(a.Store, a.Imports, a.Risk)
	patientHandler := handlers.NewPatientHandler(a.Store)
	modelHandler := handlers.NewModelHandler(a.Store)

	router.GET("/", handlers.HealthCheck)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("", handlers.APIInfo)

	scoped := api.Group("")
	scoped.Use(middleware.ProviderScope(a.Config.DefaultProviderID))
	{
		appointmentRoutes := scoped.Group("/appointments")
		{
			appointmentRoutes.POST("/import-csv", appointmentHandler.ImportCSV)
			appointmentRoutes.GET("/stats", appointmentHandler.GetStats)
			appointmentRoutes.POST("/train-model", appointmentHandler.TrainModel)
			appointmentRoutes.POST("/predict-risk", appointmentHandler.PredictRisk)
		}

		patientRoutes := scoped.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.ListPatients)
			patientRoutes.GET("/:code", patientHandler.GetPatient)
		}

		scoped.GET("/model/metrics", modelHandler.GetLatestMetrics)
	}
}

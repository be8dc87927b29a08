package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"go-churn-pipeline/internal/api/handler"
	"go-churn-pipeline/pkg/router"
)

// RegisterRoutes wires the prediction pipeline endpoints.
func RegisterRoutes(r *router.Router, h *handler.ChurnHandler) {
	r.POST("/api/v1/customers", h.UploadCustomers)
	r.GET("/api/v1/customers/sample", h.SampleCustomers)
	r.POST("/api/v1/predictions/run", h.RunPredictions)
	r.GET("/api/v1/predictions", h.GetPredictions)
	r.GET("/api/v1/predictions/download", h.DownloadPredictions)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/health", h.Health)

	r.Mount("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

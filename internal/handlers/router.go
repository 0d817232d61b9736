package handlers

import (
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the tracker page, its form endpoints and the JSON helpers.
func NewRouter(h *TrackerHandler, log *zap.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))
	r.Use(cors.New(corsConfig(origins)))
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", h.Index)
	r.POST("/applications", h.Submit)
	r.POST("/applications/:id/status", h.UpdateStatus)
	r.POST("/applications/:id/delete", h.Delete)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/state", h.State)
		api.GET("/statuses", h.Statuses)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}
	config.MaxAge = 12 * time.Hour

	for _, o := range origins {
		if o == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

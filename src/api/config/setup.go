package config

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIConfig contiene la configuración del módulo API (health y versión)
type APIConfig struct {
	DB          *sql.DB
	Version     string
	ServiceName string
}

// DefaultAPIConfig devuelve una configuración por defecto
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		Version:     "dev",
		ServiceName: "checkout-service",
	}
}

// SetupAPIModule registra los endpoints de health check y versión
// tanto en la raíz como bajo /api/v1
func SetupAPIModule(router *gin.Engine, v1 *gin.RouterGroup, cfg APIConfig) {
	handler := func(c *gin.Context) {
		status := "ok"
		dbStatus := "not_configured"

		if cfg.DB != nil {
			if err := cfg.DB.Ping(); err != nil {
				status = "degraded"
				dbStatus = "down"
			} else {
				dbStatus = "up"
			}
		}

		httpStatus := http.StatusOK
		if status != "ok" {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"service":   cfg.ServiceName,
			"status":    status,
			"version":   cfg.Version,
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	router.GET("/health", handler)
	v1.GET("/health", handler)
}

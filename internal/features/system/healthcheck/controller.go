package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthcheck", c.GetHealth)
}

// GetHealth
// @Summary Service health status
// @Description Probe the database, cache, log directory and disk usage
// @Tags system
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /healthcheck [get]
func (c *HealthcheckController) GetHealth(ctx *gin.Context) {
	status, healthy := c.healthcheckService.GetHealthStatus()

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}

	ctx.JSON(code, status)
}

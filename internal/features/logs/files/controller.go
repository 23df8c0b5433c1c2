package logs_files

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LogFileController struct {
	logFileService *LogFileService
}

func (c *LogFileController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs/files", c.ListFiles)
}

// ListFiles
// @Summary List available log files
// @Description Get the names of the log files this server exposes to the viewer
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListLogFilesResponseDTO
// @Failure 401 {object} map[string]string
// @Router /logs/files [get]
func (c *LogFileController) ListFiles(ctx *gin.Context) {
	response, err := c.logFileService.ListFiles()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list log files"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

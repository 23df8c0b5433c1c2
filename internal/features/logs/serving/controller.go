package logs_serving

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	logs_files "logview/internal/features/logs/files"
	users_middleware "logview/internal/features/users/middleware"

	"github.com/gin-gonic/gin"
)

type LogServingController struct {
	logServingService *LogServingService
	logTailerService  *LogTailerService
}

func (c *LogServingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/logs/file", c.GetLogFile)
	router.GET("/logs/stream", c.StreamLog)
}

// GetLogFile
// @Summary Read a byte window of a log file
// @Description Serve a tail ("-maxBytes") or prefix ("start-end") window of a registered log file
// @Tags logs
// @Produce plain
// @Security BearerAuth
// @Param file query string true "Registered log file name"
// @Param range query string true "Range spec: -maxBytes or start-end"
// @Success 206 {string} string "Raw bytes with Content-Range header"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /logs/file [get]
func (c *LogServingController) GetLogFile(ctx *gin.Context) {
	user, _ := users_middleware.GetUserFromContext(ctx)

	name := ctx.Query("file")
	if name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file parameter"})
		return
	}

	window, err := c.logServingService.GetWindow(name, ctx.Query("range"), user)
	if err != nil {
		c.handleWindowError(ctx, err)
		return
	}

	endInclusive := window.End - 1
	if endInclusive < window.Start {
		endInclusive = window.Start
	}

	ctx.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", window.Start, endInclusive, window.Total))
	ctx.Data(http.StatusPartialContent, "text/plain; charset=utf-8", window.Data)
}

// StreamLog
// @Summary Stream appended log lines
// @Description SSE stream of lines appended to a registered log file; replays recent lines before going live
// @Tags logs
// @Produce text/event-stream
// @Security BearerAuth
// @Param file query string true "Registered log file name"
// @Param invert query boolean false "Replay recent lines newest-first"
// @Success 200 {string} string "SSE event stream"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /logs/stream [get]
func (c *LogServingController) StreamLog(ctx *gin.Context) {
	name := ctx.Query("file")
	if name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file parameter"})
		return
	}

	if err := c.logServingService.ResolveStream(name); err != nil {
		c.handleWindowError(ctx, err)
		return
	}

	invert, _ := strconv.ParseBool(ctx.DefaultQuery("invert", "false"))

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Writer.WriteHeader(http.StatusOK)
	ctx.Writer.Flush()

	// subscribe before replay so lines appended during the replay are not lost
	lines, cancel := c.logTailerService.Hub().Subscribe(name)
	defer cancel()

	recent, err := c.logTailerService.Ring().Recent(ringKey(name), replayRingCapacity)
	if err != nil {
		recent = nil
	}
	if invert {
		for index := len(recent) - 1; index >= 0; index-- {
			writeEvent(ctx, recent[index])
		}
	} else {
		for _, line := range recent {
			writeEvent(ctx, line)
		}
	}

	for {
		select {
		case <-ctx.Request.Context().Done():
			return

		case line, ok := <-lines:
			if !ok {
				return
			}
			writeEvent(ctx, line)
		}
	}
}

func writeEvent(ctx *gin.Context, line string) {
	fmt.Fprintf(ctx.Writer, "data: %s\n\n", line)
	ctx.Writer.Flush()
}

func (c *LogServingController) handleWindowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, logs_files.ErrUnknownFile):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown log file"})
	case errors.Is(err, ErrBadRange):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Malformed range spec"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read log file"})
	}
}

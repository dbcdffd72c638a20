package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"repairshop/internal/telemetry"
)

func setResponseDefaults(r *Response) {
	if r.Message == "" {
		r.Message = "Success"
	}
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
}

func logResponseError(c *gin.Context, log *zap.Logger, reporter telemetry.Reporter, r Response) {
	if r.Error == nil {
		return
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString("requestId")),
		zap.String("path", c.Request.URL.Path),
		zap.Int("code", r.Code),
		zap.Error(r.Error),
	}

	// Only server-side failures reach the telemetry sink.
	if r.Code >= http.StatusInternalServerError {
		reporter.Capture(c.Request.Context(), r.Error)
		return
	}
	log.Info("request rejected", fields...)
}

func getStartTime(c *gin.Context) time.Time {
	if value, exists := c.Get("start-time"); exists {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

func buildDebugInfo(c *gin.Context, r Response) *ResponseAPIDebug {
	startTime := getStartTime(c)
	endTime := time.Now()

	debug := &ResponseAPIDebug{
		Version:   c.GetString("version"),
		StartTime: startTime,
		EndTime:   endTime,
		RuntimeMs: endTime.Sub(startTime).Milliseconds(),
	}
	if r.Error != nil {
		msg := r.Error.Error()
		debug.Error = &msg
	}
	return debug
}

func buildResponseAPI(c *gin.Context, r Response, shouldDebug bool) ResponseAPI {
	response := ResponseAPI{
		RequestID: c.GetString("requestId"),
		Message:   r.Message,
		Data:      r.Data,
	}

	if shouldDebug {
		response.Debug = buildDebugInfo(c, r)
	}

	return response
}

func send(c *gin.Context, log *zap.Logger, reporter telemetry.Reporter, shouldDebug bool) Send {
	return func(r Response) {
		setResponseDefaults(&r)
		logResponseError(c, log, reporter, r)
		response := buildResponseAPI(c, r, shouldDebug)

		c.Abort()
		c.JSON(r.Code, response)
	}
}

// RequestInit stamps the request id, version and start time
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestId", uuid.New().String())
		version := c.Request.Header.Get("version")
		if version == "" {
			version = "1.0.0"
		}
		c.Set("version", version)
		c.Set("start-time", time.Now())
		c.Next()
	}
}

func sendStream(c *gin.Context, log *zap.Logger, reporter telemetry.Reporter, shouldDebug bool) SendStream {
	return func(r StreamResponse) {
		if r.Code == 0 {
			r.Code = http.StatusOK
		}

		if r.Error != nil {
			send(c, log, reporter, shouldDebug)(Response{
				Code:    r.Code,
				Message: "Stream failed",
				Error:   r.Error,
			})
			return
		}

		requestID := c.GetString("requestId")
		c.Header("Content-Type", "application/json")
		if r.TotalCount >= 0 {
			c.Header("X-Total-Count", strconv.FormatInt(r.TotalCount, 10))
		}

		writer := c.Writer
		firstChunk := true

		for chunk := range r.ChunkChan {
			if err := c.Request.Context().Err(); err != nil {
				log.Info("stream cancelled", zap.String("request_id", requestID), zap.Error(err))
				r.release(chunk)
				r.drain()
				return
			}

			if chunk.Error != nil {
				if firstChunk {
					send(c, log, reporter, shouldDebug)(Response{
						Code:    http.StatusInternalServerError,
						Message: "Stream failed",
						Error:   chunk.Error,
					})
				} else {
					// Headers are gone; the truncated body is all we can signal.
					reporter.Capture(c.Request.Context(), chunk.Error)
				}
				r.drain()
				return
			}

			if chunk.JSONBuf == nil || len(*chunk.JSONBuf) == 0 {
				r.release(chunk)
				continue
			}

			if firstChunk {
				c.Status(r.Code)
				firstChunk = false
			}
			_, _ = writer.Write(*chunk.JSONBuf)
			r.release(chunk)

			if flusher, ok := writer.(http.Flusher); ok {
				flusher.Flush()
			}
		}

		if shouldDebug {
			log.Debug("stream completed",
				zap.String("request_id", requestID),
				zap.Int64("runtime_ms", time.Since(getStartTime(c)).Milliseconds()),
				zap.Int64("total_count", r.TotalCount),
			)
		}

		c.Abort()
	}
}

// ResponseInit stores the send and sendStream closures on the context
func ResponseInit(log *zap.Logger, reporter telemetry.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		shouldDebug := gin.Mode() == gin.DebugMode
		c.Set("send", send(c, log, reporter, shouldDebug))
		c.Set("sendStream", sendStream(c, log, reporter, shouldDebug))
		c.Next()
	}
}

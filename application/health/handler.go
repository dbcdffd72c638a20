package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/middleware"
)

// Handler handles HTTP requests for health
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)
}

// HealthCheck handles the GET /health endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)

	status, err := h.svc.CheckHealth(c.Request.Context())
	if err != nil {
		send(middleware.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Health check failed",
			Data:    status,
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Health check completed",
		Data:    status,
	})
}

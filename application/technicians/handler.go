package technicians

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/common"
	"repairshop/internal/auth"
	"repairshop/middleware"
)

// Handler handles HTTP requests for technicians
type Handler struct {
	dir  *Directory
	auth auth.Provider
}

// NewHandler creates a new Handler
func NewHandler(dir *Directory, provider auth.Provider) *Handler {
	return &Handler{dir: dir, auth: provider}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/technicians", h.List)
}

// List handles GET /technicians. Managers only.
func (h *Handler) List(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)
	ctx := c.Request.Context()

	perms, err := h.auth.Permissions(ctx)
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}
	if !perms.IsManager() {
		send(middleware.ErrorResponse(common.ErrForbidden))
		return
	}

	techs, err := h.dir.List(ctx)
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Technicians",
		Data:    techs,
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop/application/customers/domain"
	"repairshop/middleware"
)

// Handler handles HTTP requests for customers
type Handler struct {
	svc domain.Service
}

// NewHandler creates a new Handler
func NewHandler(service domain.Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	customers := api.Group("/customers")
	{
		customers.GET("", h.Search)
		customers.GET("/form", h.LoadForm)
		customers.POST("/form", h.Submit)
		customers.POST("/form/validate", h.ValidateField)
	}
}

// LoadForm handles GET /customers/form?customerId=
func (h *Handler) LoadForm(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)

	view, err := h.svc.LoadForm(c.Request.Context(), c.Query("customerId"))
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}
	send(middleware.ViewResponse(view))
}

// Submit handles POST /customers/form
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)
	requestID := c.GetString("requestId")
	startTime := time.Now()

	var values domain.CustomerForm
	if err := c.ShouldBindJSON(&values); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	action := "update"
	if values.IsNew() {
		action = "create"
	}
	h.svc.LogRequest(requestID, action, 0, nil)

	saved, err := h.svc.Submit(c.Request.Context(), values)
	h.svc.LogRequest(requestID, action, time.Since(startTime), err)
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}

	if values.IsNew() {
		send(middleware.Response{Code: http.StatusCreated, Message: "Customer created", Data: saved})
		return
	}
	send(middleware.Response{Code: http.StatusOK, Message: "Customer updated", Data: saved})
}

// ValidateField handles POST /customers/form/validate?field=
func (h *Handler) ValidateField(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)

	var values domain.CustomerForm
	if err := c.ShouldBindJSON(&values); err != nil {
		send(middleware.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload",
			Error:   err,
		})
		return
	}

	check, err := h.svc.ValidateField(c.Request.Context(), values, c.Query("field"))
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}
	send(middleware.Response{Code: http.StatusOK, Message: "Field checked", Data: check})
}

// Search handles GET /customers?search=
func (h *Handler) Search(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(middleware.SendStream)
	requestID := c.GetString("requestId")
	startTime := time.Now()

	h.svc.LogRequest(requestID, "search", 0, nil)
	response := h.svc.Search(c.Request.Context(), c.Query("search"))
	h.svc.LogRequest(requestID, "search", time.Since(startTime), response.Error)

	sendStream(response)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop/application/tickets/domain"
	"repairshop/middleware"
)

// Handler handles HTTP requests for tickets
type Handler struct {
	svc domain.Service
}

// NewHandler creates a new Handler
func NewHandler(service domain.Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tickets := api.Group("/tickets")
	{
		tickets.GET("", h.Search)
		tickets.GET("/form", h.LoadForm)
		tickets.POST("/form", h.Submit)
		tickets.POST("/form/validate", h.ValidateField)
	}
}

// LoadForm handles GET /tickets/form?customerId=&ticketId=
func (h *Handler) LoadForm(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)

	view, err := h.svc.LoadForm(c.Request.Context(), c.Query("customerId"), c.Query("ticketId"))
	if err != nil {
		send(middleware.ErrorResponse(err))
		return
	}
	send(middleware.ViewResponse(view))
}

// Submit handles POST /tickets/form
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)
	requestID := c.GetString("requestId")
	startTime := time.Now()

	var values domain.TicketForm
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
		send(middleware.Response{Code: http.StatusCreated, Message: "Ticket created", Data: saved})
		return
	}
	send(middleware.Response{Code: http.StatusOK, Message: "Ticket updated", Data: saved})
}

// ValidateField handles POST /tickets/form/validate?field=
func (h *Handler) ValidateField(c *gin.Context) {
	send := c.MustGet("send").(middleware.Send)

	var values domain.TicketForm
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

// Search handles GET /tickets?search=&incomplete=
func (h *Handler) Search(c *gin.Context) {
	sendStream := c.MustGet("sendStream").(middleware.SendStream)
	requestID := c.GetString("requestId")
	startTime := time.Now()

	q := domain.SearchQuery{Search: c.Query("search")}
	if raw := c.Query("incomplete"); raw != "" {
		incomplete, err := strconv.ParseBool(raw)
		if err != nil {
			send := c.MustGet("send").(middleware.Send)
			send(middleware.Response{
				Code:    http.StatusBadRequest,
				Message: "incomplete must be a boolean",
				Error:   err,
			})
			return
		}
		q.Incomplete = incomplete
	}

	h.svc.LogRequest(requestID, "search", 0, nil)
	response := h.svc.Search(c.Request.Context(), q)
	h.svc.LogRequest(requestID, "search", time.Since(startTime), response.Error)

	sendStream(response)
}

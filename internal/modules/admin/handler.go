package admin

import (
	"net/http"
	"strings"

	"tourmarket/internal/domain"
	"tourmarket/internal/middleware"
	"tourmarket/internal/modules/catalog"
	"tourmarket/internal/modules/community"
	"tourmarket/internal/pkg/params"
	"tourmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// tours moderation
	admin.GET("/tours", h.ListTours)
	admin.PATCH("/tours/:id/status", h.SetTourStatus)
	admin.PATCH("/tours/:id/publish", h.SetTourPublished)

	// community tours moderation
	admin.GET("/custom-tours", h.ListCustomTours)
	admin.PATCH("/custom-tours/:id/status", h.SetCustomTourStatus)

	// bookings
	admin.PATCH("/bookings/:id/status", h.SetBookingStatus)
}

func (h *Handler) ListTours(c *gin.Context) {
	tours, err := h.service.ListAllTours(c.Request.Context(), middleware.CallerFrom(c), c.Query("status"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"tours": catalog.NewTourResponses(tours)}, len(tours))
}

func (h *Handler) SetTourStatus(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.service.SetTourStatus(c.Request.Context(), middleware.CallerFrom(c), id, domain.TourStatus(normalize(req.Status)))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": catalog.NewTourResponse(t)})
}

func (h *Handler) SetTourPublished(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.service.SetTourPublished(c.Request.Context(), middleware.CallerFrom(c), id, *req.IsPublished)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": catalog.NewTourResponse(t)})
}

func (h *Handler) ListCustomTours(c *gin.Context) {
	list, err := h.service.ListCustomTours(c.Request.Context(), middleware.CallerFrom(c), c.Query("status"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"customTours": community.NewResponses(list)}, len(list))
}

func (h *Handler) SetCustomTourStatus(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.SetCustomTourStatus(c.Request.Context(), middleware.CallerFrom(c), id, domain.CustomTourStatus(normalize(req.Status)))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"customTour": community.NewResponse(r)})
}

func (h *Handler) SetBookingStatus(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.SetBookingStatus(c.Request.Context(), middleware.CallerFrom(c), id, domain.BookingStatus(normalize(req.Status)))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

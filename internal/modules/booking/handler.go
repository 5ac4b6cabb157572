package booking

import (
	"net/http"

	"tourmarket/internal/middleware"
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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/bookings/availability/:tourId", h.GetAvailability)

	protected.POST("/bookings", h.CreateBooking)
	protected.GET("/bookings/my-bookings", h.GetMyBookings)
	protected.PATCH("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking cancelled successfully", gin.H{"booking": b})
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	bookings, err := h.service.GetMyBookings(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"bookings": bookings}, len(bookings))
}

func (h *Handler) GetAvailability(c *gin.Context) {
	tourID, ok := params.ID(c, "tourId")
	if !ok {
		return
	}

	a, err := h.service.GetAvailability(c.Request.Context(), tourID, c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

package catalog

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

// RegisterRoutes mounts read endpoints on public (anonymous allowed) and writes on protected.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/tours", h.ListTours)
	public.GET("/tours/:id", h.GetTour)

	protected.GET("/tours/my-tours", h.ListMyTours)
	protected.POST("/tours", h.CreateTour)
	protected.PATCH("/tours/:id", h.UpdateTour)
	protected.DELETE("/tours/:id", h.DeleteTour)
}

func (h *Handler) ListTours(c *gin.Context) {
	var q ListToursQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	page, err := h.service.ListTours(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(page.Tours),
		"data": gin.H{
			"tours": NewTourResponses(page.Tours),
			"pagination": gin.H{
				"page":        page.Page,
				"limit":       page.Limit,
				"total":       page.Total,
				"totalPages":  page.TotalPages,
			},
		},
	})
}

func (h *Handler) GetTour(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetTour(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": NewTourResponse(t)})
}

func (h *Handler) ListMyTours(c *gin.Context) {
	tours, err := h.service.ListMyTours(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"tours": NewTourResponses(tours)}, len(tours))
}

func (h *Handler) CreateTour(c *gin.Context) {
	var req CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.service.CreateTour(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tour": NewTourResponse(t)})
}

func (h *Handler) UpdateTour(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	t, err := h.service.UpdateTour(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": NewTourResponse(t)})
}

func (h *Handler) DeleteTour(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTour(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Tour deleted successfully", nil)
}

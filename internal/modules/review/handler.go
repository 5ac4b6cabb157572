package review

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
	public.GET("/tours/:id/reviews", h.ListTourReviews)

	protected.POST("/tours/:id/reviews", h.CreateReview)
	protected.PATCH("/reviews/:id", h.UpdateReview)
	protected.DELETE("/reviews/:id", h.DeleteReview)
}

func (h *Handler) CreateReview(c *gin.Context) {
	tourID, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	rv, err := h.service.CreateReview(c.Request.Context(), middleware.CallerFrom(c), tourID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	rv, err := h.service.UpdateReview(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Review deleted successfully", nil)
}

func (h *Handler) ListTourReviews(c *gin.Context) {
	tourID, ok := params.ID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.service.ListTourReviews(c.Request.Context(), tourID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"reviews": reviews}, len(reviews))
}

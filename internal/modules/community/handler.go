package community

import (
	"net/http"

	"tourmarket/internal/domain"
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
	public.GET("/custom-tours", h.ListAll)
	public.GET("/custom-tours/:id", h.Get)

	protected.POST("/custom-tours", h.Create)
	protected.GET("/custom-tours/my-creations", h.ListCreated)
	protected.GET("/custom-tours/my-joins", h.ListJoined)
	protected.POST("/custom-tours/:id/join", h.Join)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"customTour": NewResponse(r)})
}

func (h *Handler) Join(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.Join(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Successfully joined the tour", gin.H{"customTour": NewResponse(r)})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"customTour": NewResponse(r)})
}

func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context(), middleware.CallerFrom(c))
	h.writeList(c, list, err)
}

func (h *Handler) ListCreated(c *gin.Context) {
	list, err := h.service.ListCreated(c.Request.Context(), middleware.CallerFrom(c))
	h.writeList(c, list, err)
}

func (h *Handler) ListJoined(c *gin.Context) {
	list, err := h.service.ListJoined(c.Request.Context(), middleware.CallerFrom(c))
	h.writeList(c, list, err)
}

func (h *Handler) writeList(c *gin.Context, list []domain.CustomTourRequest, err error) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, gin.H{"customTours": NewResponses(list)}, len(list))
}

package catalog

import "tourmarket/internal/domain"

type CreateTourRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=200"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"gte=0"`
	DurationHours  int      `json:"durationHours" binding:"required,gte=1"`
	MaxGroupSize   int      `json:"maxGroupSize" binding:"required,gte=1"`
	Category       string   `json:"category" binding:"required"`
	City           string   `json:"city" binding:"required"`
	MeetingPoint   string   `json:"meetingPoint" binding:"required"`
	CoverImage     string   `json:"coverImage"`
	Images         []string `json:"images"`
	AvailableDates []string `json:"availableDates"`
}

// UpdateTourRequest is a partial update. Status and IsPublished are honoured for admins only.
type UpdateTourRequest struct {
	Title          *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price" binding:"omitempty,gte=0"`
	DurationHours  *int      `json:"durationHours" binding:"omitempty,gte=1"`
	MaxGroupSize   *int      `json:"maxGroupSize" binding:"omitempty,gte=1"`
	Category       *string   `json:"category"`
	City           *string   `json:"city"`
	MeetingPoint   *string   `json:"meetingPoint"`
	CoverImage     *string   `json:"coverImage"`
	Images         *[]string `json:"images"`
	AvailableDates *[]string `json:"availableDates"`
	Status         *string   `json:"status"`
	IsPublished    *bool     `json:"isPublished"`
}

type ListToursQuery struct {
	City     string   `form:"city"`
	Category string   `form:"category"`
	Search   string   `form:"search"`
	Sort     string   `form:"sort"`
	Status   string   `form:"status"`
	MinPrice *float64 `form:"price[gte]"`
	MaxPrice *float64 `form:"price[lte]"`
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
}

type TourResponse struct {
	domain.Tour
	DurationDays float64 `json:"durationDays"`
}

func NewTourResponse(t *domain.Tour) TourResponse {
	return TourResponse{Tour: *t, DurationDays: t.DurationDays()}
}

func NewTourResponses(tours []domain.Tour) []TourResponse {
	out := make([]TourResponse, 0, len(tours))
	for i := range tours {
		out = append(out, NewTourResponse(&tours[i]))
	}
	return out
}

type TourPage struct {
	Tours      []domain.Tour
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

package community

import "tourmarket/internal/domain"

type CreateRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description" binding:"required"`
	City          string `json:"city" binding:"required"`
	CoverImage    string `json:"coverImage"`
	RequestedDate string `json:"requestedDate" binding:"required"`
	MaxGroupSize  int    `json:"maxGroupSize" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type Response struct {
	domain.CustomTourRequest
	ParticipantCount int `json:"participantCount"`
}

func NewResponse(r *domain.CustomTourRequest) Response {
	return Response{CustomTourRequest: *r, ParticipantCount: r.ParticipantCount()}
}

func NewResponses(list []domain.CustomTourRequest) []Response {
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, NewResponse(&list[i]))
	}
	return out
}

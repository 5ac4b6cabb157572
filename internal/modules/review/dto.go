package review

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Review *string `json:"review"`
}

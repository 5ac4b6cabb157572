package admin

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetPublishedRequest struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}

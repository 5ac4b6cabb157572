package domain

import "time"

type CustomTourStatus string

const (
	CustomTourPending   CustomTourStatus = "pending"
	CustomTourApproved  CustomTourStatus = "approved"
	CustomTourRejected  CustomTourStatus = "rejected"
	CustomTourFull      CustomTourStatus = "full"
	CustomTourConverted CustomTourStatus = "converted"
)

func (s CustomTourStatus) Valid() bool {
	switch s {
	case CustomTourPending, CustomTourApproved, CustomTourRejected, CustomTourFull, CustomTourConverted:
		return true
	}
	return false
}

const (
	MinCustomGroupSize = 2
	MaxCustomGroupSize = 50
)

type CustomTourRequest struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	City          string           `json:"city"`
	CoverImage    string           `json:"coverImage,omitempty"`
	RequestedDate string           `json:"requestedDate"`
	MaxGroupSize  int              `json:"maxGroupSize"`
	CreatorID     int64            `json:"creatorId"`
	Participants  []int64          `json:"participants"`
	Status        CustomTourStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (r *CustomTourRequest) ParticipantCount() int {
	return len(r.Participants)
}

func (r *CustomTourRequest) HasParticipant(userID int64) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *CustomTourRequest) IsFull() bool {
	return len(r.Participants) >= r.MaxGroupSize
}

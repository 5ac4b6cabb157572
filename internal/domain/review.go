package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	TourID    int64     `json:"tourId"`
	UserID    int64     `json:"userId"`
	Rating    int       `json:"rating"`
	Text      string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

package domain

import "time"

type TourStatus string

const (
	TourPending  TourStatus = "pending"
	TourApproved TourStatus = "approved"
	TourRejected TourStatus = "rejected"
)

type TourCategory string

const (
	CategoryHistorical TourCategory = "historical"
	CategoryNature     TourCategory = "nature"
	CategoryAdventure  TourCategory = "adventure"
	CategoryCultural   TourCategory = "cultural"
	CategoryReligious  TourCategory = "religious"
	CategoryCityTour   TourCategory = "city-tour"
)

func (c TourCategory) Valid() bool {
	switch c {
	case CategoryHistorical, CategoryNature, CategoryAdventure, CategoryCultural, CategoryReligious, CategoryCityTour:
		return true
	}
	return false
}

const (
	DefaultRatingsAverage = 4.5
	MinRating             = 1
	MaxRating             = 5
)

type Tour struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Price           float64      `json:"price"`
	DurationHours   int          `json:"durationHours"`
	MaxGroupSize    int          `json:"maxGroupSize"`
	Category        TourCategory `json:"category"`
	City            string       `json:"city"`
	MeetingPoint    string       `json:"meetingPoint"`
	CoverImage      string       `json:"coverImage,omitempty"`
	Images          []string     `json:"images"`
	AvailableDates  []string     `json:"availableDates"`
	RatingsAverage  float64      `json:"ratingsAverage"`
	RatingsQuantity int          `json:"ratingsQuantity"`
	GuideID         int64        `json:"guideId"`
	Status          TourStatus   `json:"status"`
	IsPublished     bool         `json:"isPublished"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// PubliclyVisible reports whether anonymous callers and travelers may see the tour.
func (t *Tour) PubliclyVisible() bool {
	return t.Status == TourApproved && t.IsPublished
}

// VisibleTo applies the public visibility rule, widened for the owning guide and admins.
func (t *Tour) VisibleTo(c Caller) bool {
	if t.PubliclyVisible() || c.IsAdmin() {
		return true
	}
	return c.Authenticated() && c.ID == t.GuideID
}

func (t *Tour) OwnedBy(c Caller) bool {
	return c.Authenticated() && c.ID == t.GuideID
}

func (t *Tour) DurationDays() float64 {
	return float64(t.DurationHours) / 24
}

// AvailableOn reports whether date (already normalized) is bookable.
// An empty schedule accepts any date.
func (t *Tour) AvailableOn(date string) bool {
	if len(t.AvailableDates) == 0 {
		return true
	}
	for _, d := range t.AvailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// TourSummary is the denormalized tour view attached to bookings.
type TourSummary struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	CoverImage string       `json:"coverImage,omitempty"`
	City       string       `json:"city"`
	Category   TourCategory `json:"category"`
}

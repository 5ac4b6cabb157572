package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses are the statuses that occupy capacity.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Cancellable reports whether the owner may still cancel the booking.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanTransitionTo describes the administrative lifecycle moves.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed
	case BookingConfirmed:
		return next == BookingCompleted
	}
	return false
}

type BookingType string

const (
	BookingTypeTour  BookingType = "tour"
	BookingTypeHotel BookingType = "hotel"
)

type Booking struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"userId"`
	BookingType    BookingType   `json:"bookingType"`
	TourID         int64         `json:"tourId"`
	TourDate       string        `json:"tourDate"`
	NumberOfPeople int           `json:"numberOfPeople"`
	TotalPrice     float64       `json:"totalPrice"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	Tour *TourSummary `json:"tour,omitempty"`
}

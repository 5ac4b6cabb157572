package booking

type CreateBookingRequest struct {
	BookingType    string `json:"bookingType"`
	TourID         int64  `json:"tourId" binding:"required,gt=0"`
	TourDate       string `json:"tourDate" binding:"required"`
	NumberOfPeople int    `json:"numberOfPeople" binding:"required,gte=1"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type Availability struct {
	TourID         int64  `json:"tourId"`
	Date           string `json:"date"`
	BookedSlots    int    `json:"bookedSlots"`
	MaxGroupSize   int    `json:"maxGroupSize"`
	AvailableSlots int    `json:"availableSlots"`
}

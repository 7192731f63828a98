package booking

import "time"

type Booking struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	PropertyID     string    `json:"propertyId"`
	CheckinDate    time.Time `json:"checkinDate"`
	CheckoutDate   time.Time `json:"checkoutDate"`
	NumberOfGuests int       `json:"numberOfGuests"`
	TotalPrice     float64   `json:"totalPrice" binding:"omitempty,min=0"`
	BookingStatus  string    `json:"bookingStatus"`
}

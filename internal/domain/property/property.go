package property

type Property struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"pricePerNight" binding:"omitempty,min=0"`
	BedroomCount  int     `json:"bedroomCount"`
	BathRoomCount int     `json:"bathRoomCount"`
	MaxGuestCount int     `json:"maxGuestCount"`
	HostID        string  `json:"hostId"`
	Rating        int     `json:"rating"`
}

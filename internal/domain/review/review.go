package review

type Review struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	PropertyID string `json:"propertyId"`
	Rating     int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment    string `json:"comment"`
}

package amenity

type Amenity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

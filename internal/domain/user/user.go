package user

const DefaultRole = "USER"

// User is the persisted shape. Password holds the bcrypt hash and only ever
// leaves this package through Public().
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PictureURL  string `json:"pictureUrl"`
	Role        string `json:"role"`
}

// Public is the externally visible projection of a user. It is a separate
// type so a password hash cannot reach a response without an explicit
// conversion.
type Public struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PictureURL  string `json:"pictureUrl"`
	Role        string `json:"role"`
}

func (u User) Public() Public {
	return Public{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		PictureURL:  u.PictureURL,
		Role:        u.Role,
	}
}

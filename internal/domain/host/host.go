package host

const DefaultRole = "HOST"

// Host mirrors user.User with an extra profile blurb. Password holds the
// bcrypt hash and is stripped by Public().
type Host struct {
	ID          string `json:"id"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PictureURL  string `json:"pictureUrl"`
	AboutMe     string `json:"aboutMe"`
	Role        string `json:"role"`
}

type Public struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PictureURL  string `json:"pictureUrl"`
	AboutMe     string `json:"aboutMe"`
	Role        string `json:"role"`
}

func (h Host) Public() Public {
	return Public{
		ID:          h.ID,
		Username:    h.Username,
		Name:        h.Name,
		Email:       h.Email,
		PhoneNumber: h.PhoneNumber,
		PictureURL:  h.PictureURL,
		AboutMe:     h.AboutMe,
		Role:        h.Role,
	}
}

package domain

import "time"

// User es la fila pública de la tabla users, con su extensión user_profiles.
type User struct {
	ID            string       `json:"user_id"`
	Email         string       `json:"email"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Major         string       `json:"major,omitempty"`
	Bio           string       `json:"bio,omitempty"`
	GradYear      *int         `json:"grad_year,omitempty"`
	ImgURL        string       `json:"img_url,omitempty"`
	Instagram     string       `json:"instagram,omitempty"`
	Snapchat      string       `json:"snapchat,omitempty"`
	SavedProfiles []string     `json:"saved_profiles"`
	CreatedAt     time.Time    `json:"created_at"`
	Profile       *UserProfile `json:"user_profiles,omitempty"`
}

// UserProfile extiende a User uno-a-uno, clave user_id.
type UserProfile struct {
	UserID      string     `json:"user_id"`
	Bio         string     `json:"bio,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

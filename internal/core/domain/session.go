package domain

import "strings"

type (
	Session struct {
		Token string
		User  User
	}

	User struct {
		ID              int64  `json:"id"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		UserName        string `json:"user_name"`
		Email           string `json:"email"`
		ProfileImageURL string `json:"profile_image_url"`
	}

	Credentials struct {
		Email    string
		Password string
	}

	Registration struct {
		FirstName    string
		LastName     string
		Email        string
		Password     string
		ProfileImage *Image
	}
)

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserName joins first and last name with an underscore, lowercased.
func (r Registration) UserName() string {
	return strings.ToLower(r.FirstName + "_" + r.LastName)
}

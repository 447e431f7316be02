package users

import "time"

// User is the identity anchor for all owned resources. The id is the opaque
// subject string issued by the auth provider.
type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UpsertUser carries the profile fields written on every successful login.
type UpsertUser struct {
	ID              string  `json:"id"`
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

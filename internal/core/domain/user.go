package domain

import "time"

// User models an authenticated actor in the system.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	EncryptedPassword string    `json:"-"`
	RoleID            string    `json:"roleId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Principal is the identity attached to an authorized request. Role is the
// role currently stored for the user, not the one embedded in the token.
type Principal struct {
	User *User
	Role *Role
}

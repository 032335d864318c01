package model

import "time"

// User is a registered form owner. The email is stored lower-cased so that
// addresses differing only in case resolve to the same identity.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	FullName     string    `json:"fullName" bson:"fullName"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Profile is the public view of a user
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Profile projects the user's public fields
func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

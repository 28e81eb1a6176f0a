package domain

import (
	"encoding/json"
	"time"
)

// User is a registered expert. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio,omitempty"`
	SocialMedia  string    `json:"socialMedia,omitempty"`
	MeetLink     string    `json:"meetLink,omitempty"`
	ProfilePhoto PhotoRef  `json:"profilePhoto"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PhotoRef is the secure URL of a stored profile photo. No photo is the empty
// value and is rendered as JSON null.
type PhotoRef string

func (p PhotoRef) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// Owner reports the identity that may mutate the profile: the user itself.
func (u *User) Owner() string { return u.ID }

// Identity is the request-scoped result of a verified token.
type Identity struct {
	ID string
}

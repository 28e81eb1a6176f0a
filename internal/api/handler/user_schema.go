package handler

import "github.com/fitexperts/experts-api/internal/core/domain"

type registerRequest struct {
	FirstName   string `form:"firstName"   json:"firstName"   validate:"required"`
	LastName    string `form:"lastName"    json:"lastName"    validate:"required"`
	Email       string `form:"email"       json:"email"       validate:"required,email"`
	Password    string `form:"password"    json:"password"    validate:"required,min=8"`
	DisplayName string `form:"displayName" json:"displayName" validate:"required"`
	Location    string `form:"location"    json:"location"    validate:"required"`
	Bio         string `form:"bio"         json:"bio"`
	SocialMedia string `form:"socialMedia" json:"socialMedia"`
	MeetLink    string `form:"meetLink"    json:"meetLink"    validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// loginResponse is the public profile plus the token.
type loginResponse struct {
	*domain.User
	Token string `json:"token"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// profileForm lists the update keys in the order changes are applied.
var profileForm = []struct {
	key  string
	make func(string) domain.ProfileChange
}{
	{"firstName", func(v string) domain.ProfileChange { return domain.SetFirstName(v) }},
	{"lastName", func(v string) domain.ProfileChange { return domain.SetLastName(v) }},
	{"displayName", func(v string) domain.ProfileChange { return domain.SetDisplayName(v) }},
	{"location", func(v string) domain.ProfileChange { return domain.SetLocation(v) }},
	{"bio", func(v string) domain.ProfileChange { return domain.SetBio(v) }},
	{"socialMedia", func(v string) domain.ProfileChange { return domain.SetSocialMedia(v) }},
	{"meetLink", func(v string) domain.ProfileChange { return domain.SetMeetLink(v) }},
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
}

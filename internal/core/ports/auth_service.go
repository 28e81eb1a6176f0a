package ports

import (
	"context"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// RegisterInput carries the registration form. Photo is optional.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DisplayName string
	Location    string
	Bio         string
	SocialMedia string
	MeetLink    string
	Photo       *FileUpload
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

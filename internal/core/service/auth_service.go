package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	photos *ProfilePhotoWorkflow
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, photos *ProfilePhotoWorkflow, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, photos: photos, log: log}
}

// Register creates an account and issues its first token. The email is
// checked before any photo is uploaded so a duplicate never leaves an orphan.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, minPasswordLength)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var stored *domain.StoredObject
	if in.Photo != nil {
		stored, err = s.photos.Stage(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Location:     strings.TrimSpace(in.Location),
		Bio:          strings.TrimSpace(in.Bio),
		SocialMedia:  strings.TrimSpace(in.SocialMedia),
		MeetLink:     strings.TrimSpace(in.MeetLink),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if stored != nil {
		user.ProfilePhoto = domain.PhotoRef(stored.SecureURL)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.photos.Abort(ctx, stored)
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Bool("photo", stored != nil).Msg("user registered")

	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &ports.AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

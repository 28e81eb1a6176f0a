package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

// ProfileService reads and updates expert profiles.
type ProfileService struct {
	users  ports.UserRepository
	photos *ProfilePhotoWorkflow
	log    zerolog.Logger
}

func NewProfileService(users ports.UserRepository, photos *ProfilePhotoWorkflow, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, photos: photos, log: log}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies the text changes and, when a photo is attached, the new photo
// reference in a single repository write:
//
//  1. load the target (not found wins over not owner) and authorize the actor
//  2. stage the photo; on failure nothing has been written
//  3. persist all changes at once; on failure the staged object is dropped
//  4. retire the previous photo, best effort
func (s *ProfileService) Update(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(in.ActorID, user); err != nil {
		return nil, err
	}

	changes := make([]domain.ProfileChange, 0, len(in.Changes)+1)
	for _, c := range in.Changes {
		if domain.Clears(c) {
			return nil, fmt.Errorf("%w: %s cannot be empty", domain.ErrValidation, c.Field())
		}
		changes = append(changes, c)
	}

	var stored *domain.StoredObject
	if in.Photo != nil {
		stored, err = s.photos.Stage(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
		changes = append(changes, domain.SetProfilePhoto(stored.SecureURL))
	}

	if len(changes) == 0 {
		return user, nil
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, changes)
	if err != nil {
		s.photos.Abort(ctx, stored)
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.photos.Commit(ctx, string(user.ProfilePhoto), stored)

	s.log.Info().
		Str("user_id", user.ID).
		Int("changes", len(changes)).
		Bool("photo", stored != nil).
		Msg("profile updated")

	return updated, nil
}

package ports

import (
	"context"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// UpdateProfileInput is a profile mutation requested by ActorID against TargetID.
type UpdateProfileInput struct {
	ActorID  string
	TargetID string
	Changes  []domain.ProfileChange
	Photo    *FileUpload
}

type ProfileService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, in UpdateProfileInput) (*domain.User, error)
}

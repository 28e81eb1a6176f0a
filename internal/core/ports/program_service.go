package ports

import (
	"context"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// ProgramInput carries program fields. On update, empty fields keep their stored value.
type ProgramInput struct {
	Name        string
	Description string
	Duration    string
	Price       string
	Highlights  string
	FAQs        []domain.FAQ
}

type ProgramService interface {
	Create(ctx context.Context, actorID string, in ProgramInput) (*domain.Program, error)
	Get(ctx context.Context, id string) (*domain.Program, error)
	ListByExpert(ctx context.Context, expertID string) ([]*domain.Program, error)
	Update(ctx context.Context, actorID, id string, in ProgramInput) (*domain.Program, error)
	Delete(ctx context.Context, actorID, id string) error
}

package ports

import (
	"context"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// ProgramRepository persists programs listed by experts.
type ProgramRepository interface {
	Create(ctx context.Context, p *domain.Program) (*domain.Program, error)
	FindByID(ctx context.Context, id string) (*domain.Program, error)
	ListByExpert(ctx context.Context, expertID string) ([]*domain.Program, error)
	Update(ctx context.Context, p *domain.Program) (*domain.Program, error)
	Delete(ctx context.Context, id string) error
}

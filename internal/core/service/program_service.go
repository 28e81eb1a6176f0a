package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

type ProgramService struct {
	repo   ports.ProgramRepository
	logger zerolog.Logger
}

func NewProgramService(repo ports.ProgramRepository, logger zerolog.Logger) *ProgramService {
	return &ProgramService{repo: repo, logger: logger}
}

// Create lists a new program owned by actorID.
func (s *ProgramService) Create(ctx context.Context, actorID string, in ports.ProgramInput) (*domain.Program, error) {
	if actorID == "" {
		return nil, domain.ErrNoToken
	}
	if err := requireProgramFields(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	program := &domain.Program{
		ExpertID:    actorID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Duration:    strings.TrimSpace(in.Duration),
		Price:       strings.TrimSpace(in.Price),
		Highlights:  strings.TrimSpace(in.Highlights),
		FAQs:        cleanFAQs(in.FAQs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, program)
	if err != nil {
		s.logger.Error().Err(err).Str("expert_id", actorID).Msg("failed to create program")
		return nil, err
	}

	s.logger.Info().Str("program_id", created.ID).Str("expert_id", actorID).Msg("program created")
	return created, nil
}

func (s *ProgramService) Get(ctx context.Context, id string) (*domain.Program, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProgramService) ListByExpert(ctx context.Context, expertID string) ([]*domain.Program, error) {
	return s.repo.ListByExpert(ctx, expertID)
}

// Update overwrites only the fields in that are non-empty.
func (s *ProgramService) Update(ctx context.Context, actorID, id string, in ports.ProgramInput) (*domain.Program, error) {
	program, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	program.Name = keep(program.Name, in.Name)
	program.Description = keep(program.Description, in.Description)
	program.Duration = keep(program.Duration, in.Duration)
	program.Price = keep(program.Price, in.Price)
	program.Highlights = keep(program.Highlights, in.Highlights)
	if len(in.FAQs) > 0 {
		program.FAQs = cleanFAQs(in.FAQs)
	}
	program.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("update program: %w", err)
	}
	return updated, nil
}

func (s *ProgramService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.loadOwned(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	s.logger.Info().Str("program_id", id).Str("expert_id", actorID).Msg("program deleted")
	return nil
}

// loadOwned checks existence before ownership.
func (s *ProgramService) loadOwned(ctx context.Context, actorID, id string) (*domain.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actorID, program); err != nil {
		return nil, err
	}
	return program, nil
}

func requireProgramFields(in ports.ProgramInput) error {
	fields := []struct{ name, value string }{
		{"name", in.Name},
		{"description", in.Description},
		{"duration", in.Duration},
		{"price", in.Price},
	}
	missing := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func keep(current, next string) string {
	if v := strings.TrimSpace(next); v != "" {
		return v
	}
	return current
}

func cleanFAQs(in []domain.FAQ) []domain.FAQ {
	out := make([]domain.FAQ, 0, len(in))
	for _, f := range in {
		q, a := strings.TrimSpace(f.Question), strings.TrimSpace(f.Answer)
		if q == "" || a == "" {
			continue
		}
		out = append(out, domain.FAQ{Question: q, Answer: a})
	}
	return out
}

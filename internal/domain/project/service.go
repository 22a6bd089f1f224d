package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

type Service struct {
	repo   Repository
	finder *search.Finder[*Project]
	sync   *search.Sync[*Project]
}

// NewService wires repo to its finder. sync may be nil when the index is
// not maintained by this process.
func NewService(repo Repository, finder *search.Finder[*Project], sync *search.Sync[*Project]) *Service {
	return &Service{repo: repo, finder: finder, sync: sync}
}

func (s *Service) Finder() *search.Finder[*Project] { return s.finder }

func validate(p *Project) error {
	var result *multierror.Error
	if strings.TrimSpace(p.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: name is required", api.ErrValidation))
	}
	if p.EditionID == uuid.Nil {
		result = multierror.Append(result, fmt.Errorf("%w: edition_id is required", api.ErrValidation))
	}
	if !p.Privacy.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: invalid privacy %q", api.ErrValidation, p.Privacy))
	}
	return result.ErrorOrNil()
}

func (s *Service) CreateProject(ctx context.Context, p *Project) error {
	if p.Privacy == "" {
		p.Privacy = PrivacyPrivate
	}
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.sync.Put(p)
	return nil
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProject(ctx context.Context, p *Project) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.sync.Put(p)
	return nil
}

func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.sync.Delete(id.String())
	return nil
}

// Reindex writes every stored project to the index.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list projects: %w", err)
	}
	return s.sync.Reindex(items)
}

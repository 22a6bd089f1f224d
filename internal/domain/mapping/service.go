package mapping

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

type Service struct {
	repo   Repository
	finder *search.Finder[*Mapping]
	sync   *search.Sync[*Mapping]
}

func NewService(repo Repository, finder *search.Finder[*Mapping], sync *search.Sync[*Mapping]) *Service {
	return &Service{repo: repo, finder: finder, sync: sync}
}

func (s *Service) Finder() *search.Finder[*Mapping] { return s.finder }

func validate(m *Mapping) error {
	var result *multierror.Error
	if m.ProjectID == uuid.Nil {
		result = multierror.Append(result, fmt.Errorf("%w: project_id is required", api.ErrValidation))
	}
	if strings.TrimSpace(m.Source.Code) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: source.code is required", api.ErrValidation))
	}
	switch {
	case !m.Relationship.Valid():
		result = multierror.Append(result, fmt.Errorf("%w: invalid relationship %q", api.ErrValidation, m.Relationship))
	case m.Relationship == RelNoMatch && m.Target != nil:
		result = multierror.Append(result, fmt.Errorf("%w: a NO_MATCH mapping has no target", api.ErrValidation))
	case m.Relationship != RelNoMatch && (m.Target == nil || strings.TrimSpace(m.Target.Code) == ""):
		result = multierror.Append(result, fmt.Errorf("%w: target.code is required for %s", api.ErrValidation, m.Relationship))
	}
	if !m.Status.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: invalid status %q", api.ErrValidation, m.Status))
	}
	return result.ErrorOrNil()
}

func (s *Service) CreateMapping(ctx context.Context, m *Mapping) error {
	if m.Status == "" {
		m.Status = StatusNew
	}
	if err := validate(m); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	s.sync.Put(m)
	return nil
}

func (s *Service) GetMapping(ctx context.Context, id uuid.UUID) (*Mapping, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateMapping replaces the content of a mapping. The workflow status is
// kept; it only changes through SetStatus.
func (s *Service) UpdateMapping(ctx context.Context, m *Mapping) error {
	existing, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	m.Status = existing.Status
	if err := validate(m); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.sync.Put(m)
	return nil
}

// SetStatus moves a mapping along its workflow.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, to Status) (*Mapping, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", api.ErrValidation, to)
	}
	if !slices.Contains(transitions[m.Status], to) {
		return nil, fmt.Errorf("%w: cannot move mapping from %s to %s", api.ErrValidation, m.Status, to)
	}
	m.Status = to
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.sync.Put(m)
	return m, nil
}

func (s *Service) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.sync.Delete(id.String())
	return nil
}

func (s *Service) Reindex(ctx context.Context) (int, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list mappings: %w", err)
	}
	return s.sync.Reindex(items)
}

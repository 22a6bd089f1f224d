package refset

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
	finder *search.Finder[*Refset]
	sync   *search.Sync[*Refset]
}

func NewService(repo Repository, finder *search.Finder[*Refset], sync *search.Sync[*Refset]) *Service {
	return &Service{repo: repo, finder: finder, sync: sync}
}

func (s *Service) Finder() *search.Finder[*Refset] { return s.finder }

// validSCTID reports whether id looks like a concept identifier: 6 to 18
// digits without a leading zero.
func validSCTID(id string) bool {
	if len(id) < 6 || len(id) > 18 || id[0] == '0' {
		return false
	}
	return strings.Trim(id, "0123456789") == ""
}

func validate(r *Refset) error {
	var result *multierror.Error
	if !validSCTID(r.RefsetID) {
		result = multierror.Append(result, fmt.Errorf("%w: invalid refset_id %q", api.ErrValidation, r.RefsetID))
	}
	if strings.TrimSpace(r.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: name is required", api.ErrValidation))
	}
	if !r.Type.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: invalid type %q", api.ErrValidation, r.Type))
	}
	if r.EditionID == uuid.Nil {
		result = multierror.Append(result, fmt.Errorf("%w: edition_id is required", api.ErrValidation))
	}
	if r.ModuleID != "" && !validSCTID(r.ModuleID) {
		result = multierror.Append(result, fmt.Errorf("%w: invalid module_id %q", api.ErrValidation, r.ModuleID))
	}
	if r.MemberCount < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: member_count must not be negative", api.ErrValidation))
	}
	return result.ErrorOrNil()
}

func (s *Service) CreateRefset(ctx context.Context, r *Refset) error {
	if r.Type == "" {
		r.Type = TypeSimple
	}
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	s.sync.Put(r)
	return nil
}

func (s *Service) GetRefset(ctx context.Context, id uuid.UUID) (*Refset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateRefset(ctx context.Context, r *Refset) error {
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.sync.Put(r)
	return nil
}

func (s *Service) DeleteRefset(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.sync.Delete(id.String())
	return nil
}

func (s *Service) Reindex(ctx context.Context) (int, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list refsets: %w", err)
	}
	return s.sync.Reindex(items)
}

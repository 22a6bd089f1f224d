package edition

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

// Fields are the sortable paths of an edition. Editions are few, so they are
// listed in memory rather than indexed.
var Fields = search.MustReflect[*Edition](
	"shortName", "name", "namespace", "organization", "defaultLocale", "createdAt", "updatedAt",
)

type Service struct {
	repo   Repository
	search *search.Service
}

func NewService(repo Repository, svc *search.Service) *Service {
	return &Service{repo: repo, search: svc}
}

func validate(e *Edition) error {
	var result *multierror.Error
	if strings.TrimSpace(e.ShortName) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: short_name is required", api.ErrValidation))
	}
	if strings.TrimSpace(e.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: name is required", api.ErrValidation))
	}
	if e.Namespace != "" && strings.Trim(e.Namespace, "0123456789") != "" {
		result = multierror.Append(result, fmt.Errorf("%w: namespace %q must be numeric", api.ErrValidation, e.Namespace))
	}
	return result.ErrorOrNil()
}

func (s *Service) CreateEdition(ctx context.Context, e *Edition) error {
	if e.DefaultLocale == "" {
		e.DefaultLocale = DefaultLocale
	}
	if err := validate(e); err != nil {
		return err
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) GetEdition(ctx context.Context, id uuid.UUID) (*Edition, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateEdition(ctx context.Context, e *Edition) error {
	if e.DefaultLocale == "" {
		e.DefaultLocale = DefaultLocale
	}
	if err := validate(e); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) DeleteEdition(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListEditions sorts and pages every edition in memory. A non-empty
// organization keeps only editions it publishes.
func (s *Service) ListEditions(ctx context.Context, organization string, pfs *search.Pfs) (*search.Result[*Edition], error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	if organization != "" {
		items = lo.Filter(items, func(e *Edition, _ int) bool {
			return strings.EqualFold(e.Organization, organization)
		})
	}
	return search.List(s.search, items, pfs, Fields)
}

package mapuser

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

type Service struct {
	repo   Repository
	finder *search.Finder[*MapUser]
	sync   *search.Sync[*MapUser]
}

func NewService(repo Repository, finder *search.Finder[*MapUser], sync *search.Sync[*MapUser]) *Service {
	return &Service{repo: repo, finder: finder, sync: sync}
}

func (s *Service) Finder() *search.Finder[*MapUser] { return s.finder }

func validate(u *MapUser) error {
	var result *multierror.Error
	if strings.TrimSpace(u.UserName) == "" || strings.ContainsAny(u.UserName, " \t") {
		result = multierror.Append(result, fmt.Errorf("%w: user_name is required and may not contain spaces", api.ErrValidation))
	}
	if strings.TrimSpace(u.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: name is required", api.ErrValidation))
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: invalid email %q", api.ErrValidation, u.Email))
		}
	}
	if !u.Role.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: invalid role %q", api.ErrValidation, u.Role))
	}
	return result.ErrorOrNil()
}

func (s *Service) CreateMapUser(ctx context.Context, u *MapUser) error {
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if err := validate(u); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}
	s.sync.Put(u)
	return nil
}

func (s *Service) GetMapUser(ctx context.Context, id uuid.UUID) (*MapUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMapUser(ctx context.Context, u *MapUser) error {
	if err := validate(u); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.sync.Put(u)
	return nil
}

func (s *Service) DeleteMapUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.sync.Delete(id.String())
	return nil
}

// FindByUserName returns the user with the exact user name, if any.
func (s *Service) FindByUserName(ctx context.Context, userName string) (*MapUser, bool, error) {
	return s.finder.FindSingle(ctx, "", &search.Query{Fields: map[string]string{"userName": userName}})
}

func (s *Service) Reindex(ctx context.Context) (int, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list map users: %w", err)
	}
	return s.sync.Reindex(items)
}

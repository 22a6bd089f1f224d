package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/refset/refset/internal/platform/middleware"
	"github.com/refset/refset/internal/platform/search"
)

const (
	// DefaultWindow bounds a listing when no since time is given.
	DefaultWindow = 7 * 24 * time.Hour

	// MaxEntries caps how many entries one listing sorts in memory.
	MaxEntries = 10000
)

var Fields = search.MustReflect[*Entry](
	"userName", "action", "entityType", "entityId", "method", "path", "statusCode", "timestamp",
)

type Service struct {
	repo   Repository
	search *search.Service
	now    func() time.Time
}

func NewService(repo Repository, svc *search.Service) *Service {
	return &Service{repo: repo, search: svc, now: time.Now}
}

// RecordAccess stores one API access. It implements middleware.AuditRecorder.
func (s *Service) RecordAccess(ctx context.Context, a middleware.AuditEntry) error {
	e := fromAccess(a)
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// List loads the newest entries matching f and sorts and pages them in
// memory. Without a sort the newest entry comes first.
func (s *Service) List(ctx context.Context, f Filter, pfs *search.Pfs) (*search.Result[*Entry], error) {
	if f.Since.IsZero() {
		f.Since = s.now().Add(-DefaultWindow)
	}
	items, err := s.repo.List(ctx, f, MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return search.List(s.search, items, pfs, Fields)
}

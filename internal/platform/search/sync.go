package search

import (
	"github.com/rs/zerolog"
)

// Index write operations reported to an IndexRecorder.
const (
	IndexPut     = "put"
	IndexDelete  = "delete"
	IndexReindex = "reindex"
)

// IndexRecorder is told about every successful index write.
type IndexRecorder interface {
	IndexUpdated(entity, op string, n int)
}

// Sync keeps the index current for one entity as records change. Index
// failures are logged and never returned: the database stays the source of
// truth and a reindex repairs drift. A nil *Sync does nothing.
type Sync[T any] struct {
	indexer  *Indexer[T]
	logger   zerolog.Logger
	recorder IndexRecorder
}

// NewSync returns a Sync writing through indexer. recorder may be nil.
func NewSync[T any](indexer *Indexer[T], logger zerolog.Logger, recorder IndexRecorder) *Sync[T] {
	return &Sync[T]{
		indexer:  indexer,
		logger:   logger.With().Str("entity", indexer.entity.Name).Logger(),
		recorder: recorder,
	}
}

// Put indexes item.
func (s *Sync[T]) Put(item T) {
	if s == nil {
		return
	}
	id := s.indexer.entity.ID(item)
	if err := s.indexer.Put(item); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("index put failed")
		return
	}
	s.record(IndexPut, 1)
}

// Delete removes id from the index.
func (s *Sync[T]) Delete(id string) {
	if s == nil {
		return
	}
	if err := s.indexer.Delete(id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("index delete failed")
		return
	}
	s.record(IndexDelete, 1)
}

// Reindex replaces the entity documents with items and returns how many were
// written. Unlike Put it reports failures.
func (s *Sync[T]) Reindex(items []T) (int, error) {
	if s == nil {
		return 0, nil
	}
	n, err := s.indexer.Reindex(items)
	if err != nil {
		return n, err
	}
	s.record(IndexReindex, n)
	s.logger.Info().Int("count", n).Msg("reindexed")
	return n, nil
}

func (s *Sync[T]) record(op string, n int) {
	if s.recorder != nil {
		s.recorder.IndexUpdated(s.indexer.entity.Name, op, n)
	}
}

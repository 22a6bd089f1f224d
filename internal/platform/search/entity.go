package search

import (
	"context"
	"errors"
	"fmt"
)

// Entity binds a Go type to its descriptor, sort fields and loader.
type Entity[T any] struct {
	Descriptor
	Fields *Fields[T]
	ID     func(T) string
	Load   func(ctx context.Context, ids []string) ([]T, error)
}

// EntityType returns the index type name.
func (e *Entity[T]) EntityType() string { return e.Name }

// IndexFields lists every registered path with its kind.
func (e *Entity[T]) IndexFields() []IndexField {
	paths := e.Fields.Paths()
	out := make([]IndexField, 0, len(paths))
	for _, p := range paths {
		k, _ := e.Fields.Kind(p)
		out = append(out, IndexField{Path: p, Kind: k})
	}
	return out
}

// Document renders item as a nested map of its registered paths. Null
// values are omitted.
func (e *Entity[T]) Document(item T) (map[string]any, error) {
	doc := make(map[string]any)
	for _, p := range e.Fields.Paths() {
		v, err := e.Fields.Extract(item, p)
		if errors.Is(err, ErrNullIntermediate) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", e.Name, err)
		}
		if v == nil {
			continue
		}
		setPath(doc, splitPath(p), v)
	}
	return doc, nil
}

func setPath(doc map[string]any, segs []string, v any) {
	for _, seg := range segs[:len(segs)-1] {
		next, ok := doc[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			doc[seg] = next
		}
		doc = next
	}
	doc[segs[len(segs)-1]] = v
}

// Indexer keeps the index in step with one entity type.
type Indexer[T any] struct {
	index  *Index
	entity *Entity[T]
}

// NewIndexer returns an Indexer writing entity documents to index.
func NewIndexer[T any](index *Index, entity *Entity[T]) *Indexer[T] {
	return &Indexer[T]{index: index, entity: entity}
}

// Put indexes item.
func (x *Indexer[T]) Put(item T) error {
	doc, err := x.entity.Document(item)
	if err != nil {
		return err
	}
	return x.index.Put(x.entity.Name, x.entity.ID(item), doc)
}

// Delete removes the document for id.
func (x *Indexer[T]) Delete(id string) error {
	return x.index.Delete(x.entity.Name, id)
}

// Reindex replaces every document of the entity with items in one batch and
// returns how many were written. Documents without a matching item are
// removed.
func (x *Indexer[T]) Reindex(items []T) (int, error) {
	docs := make(map[string]map[string]any, len(items))
	for _, item := range items {
		doc, err := x.entity.Document(item)
		if err != nil {
			return 0, err
		}
		docs[x.entity.ID(item)] = doc
	}
	if err := x.index.Replace(x.entity.Name, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

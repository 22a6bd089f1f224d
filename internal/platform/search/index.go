package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/samber/lo"
)

// TypeField holds the entity type of every indexed document.
const TypeField = "entity_type"

// SortSuffix names the keyword copy of a text field. Analyzed text sorts by
// its terms, so sorting reads the whole value from the copy instead.
const SortSuffix = "_sort"

// IndexField is one indexed path with its value kind.
type IndexField struct {
	Path string
	Kind Kind
}

// Mapper describes how one entity type is laid out in the index.
type Mapper interface {
	EntityType() string
	IndexFields() []IndexField
}

// Index is a bleve index shared by every entity type. Document ids are
// "<entity>/<id>".
type Index struct {
	bleve bleve.Index
	// entity -> path -> field used for sorting
	sortFields map[string]map[string]string
}

// OpenIndex opens the index at path, creating it with a mapping built from
// mappers when it does not exist. An empty path keeps the index in memory.
func OpenIndex(path string, mappers ...Mapper) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(BuildMapping(mappers...))
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return newIndex(idx, mappers), nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) || errors.Is(err, bleve.ErrorIndexMetaMissing) {
		idx, err = bleve.New(path, BuildMapping(mappers...))
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return newIndex(idx, mappers), nil
}

func newIndex(idx bleve.Index, mappers []Mapper) *Index {
	sf := make(map[string]map[string]string, len(mappers))
	for _, m := range mappers {
		paths := make(map[string]string)
		for _, f := range m.IndexFields() {
			if f.Kind == KindText {
				paths[f.Path] = f.Path + SortSuffix
			}
		}
		sf[m.EntityType()] = paths
	}
	return &Index{bleve: idx, sortFields: sf}
}

// sortField returns the index field sorting by path reads.
func (i *Index) sortField(entity, path string) string {
	if f, ok := i.sortFields[entity][path]; ok {
		return f
	}
	return path
}

// BuildMapping returns a mapping with one document mapping per entity type.
// Dotted paths become nested sub-documents.
func BuildMapping(mappers ...Mapper) *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	im.TypeField = TypeField

	for _, m := range mappers {
		dm := bleve.NewDocumentMapping()
		dm.Dynamic = false

		typeField := bleve.NewKeywordFieldMapping()
		typeField.IncludeInAll = false
		dm.AddFieldMappingsAt(TypeField, typeField)

		for _, f := range m.IndexFields() {
			segs := splitPath(f.Path)
			parent := dm
			for _, seg := range segs[:len(segs)-1] {
				sub, ok := parent.Properties[seg]
				if !ok {
					sub = bleve.NewDocumentMapping()
					sub.Dynamic = false
					parent.AddSubDocumentMapping(seg, sub)
				}
				parent = sub
			}
			leaf := segs[len(segs)-1]
			fms := []*mapping.FieldMapping{fieldMapping(f.Kind)}
			if f.Kind == KindText {
				keyed := bleve.NewKeywordFieldMapping()
				keyed.Name = leaf + SortSuffix
				keyed.IncludeInAll = false
				keyed.Store = false
				fms = append(fms, keyed)
			}
			parent.AddFieldMappingsAt(leaf, fms...)
		}
		im.AddDocumentMapping(m.EntityType(), dm)
	}
	return im
}

func fieldMapping(k Kind) *mapping.FieldMapping {
	switch k {
	case KindEnum:
		return bleve.NewKeywordFieldMapping()
	case KindInt:
		return bleve.NewNumericFieldMapping()
	case KindTime:
		return bleve.NewDateTimeFieldMapping()
	default:
		return bleve.NewTextFieldMapping()
	}
}

func docID(entity, id string) string { return entity + "/" + id }

func splitDocID(entity, doc string) (string, bool) {
	return strings.CutPrefix(doc, entity+"/")
}

// Put indexes or replaces one document.
func (i *Index) Put(entity, id string, doc map[string]any) error {
	doc[TypeField] = entity
	if err := i.bleve.Index(docID(entity, id), doc); err != nil {
		return fmt.Errorf("index %s/%s: %w", entity, id, err)
	}
	return nil
}

// Delete removes one document. Deleting a missing document is not an error.
func (i *Index) Delete(entity, id string) error {
	if err := i.bleve.Delete(docID(entity, id)); err != nil {
		return fmt.Errorf("delete %s/%s: %w", entity, id, err)
	}
	return nil
}

// Batch indexes docs keyed by id in a single batch.
func (i *Index) Batch(entity string, docs map[string]map[string]any) error {
	return i.write(entity, docs, nil)
}

// Replace makes docs the complete document set of entity: documents of
// that type not present in docs are deleted in the same batch.
func (i *Index) Replace(entity string, docs map[string]map[string]any) error {
	existing, err := i.entityIDs(entity)
	if err != nil {
		return err
	}
	stale := lo.Filter(existing, func(id string, _ int) bool {
		_, keep := docs[id]
		return !keep
	})
	return i.write(entity, docs, stale)
}

func (i *Index) write(entity string, docs map[string]map[string]any, deletes []string) error {
	b := i.bleve.NewBatch()
	for _, id := range deletes {
		b.Delete(docID(entity, id))
	}
	for id, doc := range docs {
		doc[TypeField] = entity
		if err := b.Index(docID(entity, id), doc); err != nil {
			return fmt.Errorf("batch %s/%s: %w", entity, id, err)
		}
	}
	if err := i.bleve.Batch(b); err != nil {
		return fmt.Errorf("apply batch for %s: %w", entity, err)
	}
	return nil
}

// entityIDs lists the ids of every indexed document of entity.
func (i *Index) entityIDs(entity string) ([]string, error) {
	q := bleve.NewTermQuery(entity)
	q.SetField(TypeField)
	res, err := i.bleve.Search(bleve.NewSearchRequestOptions(q, 0, 0, false))
	if err != nil {
		return nil, fmt.Errorf("count %s documents: %w", entity, err)
	}
	if res.Total == 0 {
		return nil, nil
	}
	res, err = i.bleve.Search(bleve.NewSearchRequestOptions(q, int(res.Total), 0, false))
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", entity, err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, dm := range res.Hits {
		if id, ok := splitDocID(entity, dm.ID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DocCount returns the number of documents across all entity types.
func (i *Index) DocCount() (uint64, error) {
	return i.bleve.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	return i.bleve.Close()
}

package search

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Kind classifies the final value of a sort path.
type Kind int

const (
	KindText Kind = iota + 1
	KindEnum
	KindInt
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type accessor[T any] struct {
	kind Kind
	get  func(T) (any, error)
}

// Fields maps dotted sort paths to typed accessors over T. It is built once
// and read concurrently afterwards.
type Fields[T any] struct {
	byPath map[string]accessor[T]
	order  []string
}

// NewFields returns an empty accessor registry.
func NewFields[T any]() *Fields[T] {
	return &Fields[T]{byPath: make(map[string]accessor[T])}
}

// Add registers fn as the accessor of path. fn returns nil for a null value.
func (f *Fields[T]) Add(path string, kind Kind, fn func(T) any) *Fields[T] {
	return f.add(path, kind, func(item T) (any, error) { return fn(item), nil })
}

func (f *Fields[T]) add(path string, kind Kind, get func(T) (any, error)) *Fields[T] {
	if _, ok := f.byPath[path]; !ok {
		f.order = append(f.order, path)
	}
	f.byPath[path] = accessor[T]{kind: kind, get: get}
	return f
}

// Has reports whether path is registered.
func (f *Fields[T]) Has(path string) bool {
	if f == nil {
		return false
	}
	_, ok := f.byPath[path]
	return ok
}

// Paths returns the registered paths in registration order.
func (f *Fields[T]) Paths() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.order...)
}

// Kind returns the kind registered for path.
func (f *Fields[T]) Kind(path string) (Kind, bool) {
	if f == nil {
		return 0, false
	}
	a, ok := f.byPath[path]
	return a.kind, ok
}

// Check reports every path that is not registered.
func (f *Fields[T]) Check(paths ...string) error {
	var result *multierror.Error
	for _, p := range paths {
		if p == RandomSort {
			continue
		}
		if !f.Has(p) {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrMissingAccessor, p))
		}
	}
	return result.ErrorOrNil()
}

// Extract returns the value of path on item as nil, string, int64 or
// time.Time.
func (f *Fields[T]) Extract(item T, path string) (any, error) {
	if !f.Has(path) {
		return nil, fmt.Errorf("%w: %q", ErrMissingAccessor, path)
	}
	v, err := f.byPath[path].get(item)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", path, err)
	}
	v, err = normalize(v)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", path, err)
	}
	return v, nil
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() == timeType {
		return rv.Interface().(time.Time), nil
	}
	if rv.Type().Implements(stringerType) && rv.Kind() != reflect.Struct {
		return rv.Interface().(fmt.Stringer).String(), nil
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %s value %d exceeds int64", ErrUnsupportedSortType, rv.Type(), u)
		}
		return int64(u), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSortType, rv.Type())
}

// kindOf classifies a static final type, or reports it unsupported.
func kindOf(t reflect.Type) (Kind, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return KindTime, nil
	}
	if t.Kind() != reflect.Struct && t.Implements(stringerType) {
		return KindEnum, nil
	}
	switch t.Kind() {
	case reflect.String:
		if t.PkgPath() != "" {
			return KindEnum, nil
		}
		return KindText, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInt, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedSortType, t)
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

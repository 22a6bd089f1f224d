package search

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type step struct {
	name    string
	method  bool
	ptrRecv bool
	field   []int
}

// Reflect builds accessors for paths by naming convention. Each segment
// resolves to an exported method Seg(), an exported method GetSeg() or an
// exported field Seg, in that order. Resolution happens here, once; every
// unresolvable path is reported in the returned error.
func Reflect[T any](paths ...string) (*Fields[T], error) {
	f := NewFields[T]()
	var result *multierror.Error
	root := reflect.TypeFor[T]()
	for _, path := range paths {
		steps, kind, err := resolve(root, path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("path %q: %w", path, err))
			continue
		}
		f.add(path, kind, func(item T) (any, error) {
			return walk(reflect.ValueOf(&item).Elem(), steps)
		})
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustReflect is Reflect for package-level registrations.
func MustReflect[T any](paths ...string) *Fields[T] {
	f, err := Reflect[T](paths...)
	if err != nil {
		panic(err)
	}
	return f
}

func resolve(t reflect.Type, path string) ([]step, Kind, error) {
	segs := splitPath(path)
	steps := make([]step, 0, len(segs))
	for _, seg := range segs {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if seg == "" {
			return nil, 0, fmt.Errorf("%w: empty segment", ErrMissingAccessor)
		}
		st, next, ok := lookup(t, seg)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s has no accessor for %q", ErrMissingAccessor, t, seg)
		}
		steps = append(steps, st)
		t = next
	}
	kind, err := kindOf(t)
	if err != nil {
		return nil, 0, err
	}
	return steps, kind, nil
}

func lookup(t reflect.Type, seg string) (step, reflect.Type, bool) {
	for _, name := range candidates(seg) {
		for _, mname := range []string{name, "Get" + name} {
			if m, ok := t.MethodByName(mname); ok && accessorMethod(m.Type, 1) {
				return step{name: mname, method: true}, m.Type.Out(0), true
			}
			if m, ok := reflect.PointerTo(t).MethodByName(mname); ok && accessorMethod(m.Type, 1) {
				return step{name: mname, method: true, ptrRecv: true}, m.Type.Out(0), true
			}
		}
	}
	if t.Kind() != reflect.Struct {
		return step{}, nil, false
	}
	for _, name := range candidates(seg) {
		if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
			return step{name: name, field: sf.Index}, sf.Type, true
		}
	}
	return step{}, nil, false
}

func accessorMethod(mt reflect.Type, recv int) bool {
	return mt.NumIn() == recv && mt.NumOut() == 1
}

// candidates yields the exported spellings of a path segment.
func candidates(seg string) []string {
	title := strings.ToUpper(seg[:1]) + seg[1:]
	out := []string{title}
	if strings.HasSuffix(title, "Id") {
		out = append(out, strings.TrimSuffix(title, "Id")+"ID")
	}
	if upper := strings.ToUpper(seg); upper != title {
		out = append(out, upper)
	}
	return out
}

func walk(v reflect.Value, steps []step) (any, error) {
	for i, st := range steps {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				if i == 0 {
					return nil, ErrNullIntermediate
				}
				return nil, fmt.Errorf("%w: before %q", ErrNullIntermediate, st.name)
			}
			v = v.Elem()
		}
		if st.method {
			recv := v
			if st.ptrRecv {
				if v.CanAddr() {
					recv = v.Addr()
				} else {
					cp := reflect.New(v.Type())
					cp.Elem().Set(v)
					recv = cp
				}
			}
			v = recv.MethodByName(st.name).Call(nil)[0]
			continue
		}
		fv, err := v.FieldByIndexErr(st.field)
		if err != nil {
			return nil, errors.Join(ErrNullIntermediate, err)
		}
		v = fv
	}
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

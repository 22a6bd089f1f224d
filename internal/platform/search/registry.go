package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// DefaultHandler is the handler used when a request names none.
const DefaultHandler = "DEFAULT"

// Registry maps handler names to handlers. It is immutable after
// construction.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds a registry from handlers keyed by name. Names are
// case-insensitive and a DEFAULT handler is required.
func NewRegistry(handlers map[string]Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for name, h := range handlers {
		r.handlers[normalizeName(name)] = h
	}
	if _, ok := r.handlers[DefaultHandler]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, DefaultHandler)
	}
	return r, nil
}

// Lookup returns the handler for name and its canonical name. An empty
// name selects DEFAULT.
func (r *Registry) Lookup(name string) (Handler, string, error) {
	name = normalizeName(name)
	if name == "" {
		name = DefaultHandler
	}
	h, ok := r.handlers[name]
	if !ok {
		return nil, name, fmt.Errorf("%w: %s", ErrHandlerNotFound, name)
	}
	return h, name, nil
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	names := lo.Keys(r.handlers)
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

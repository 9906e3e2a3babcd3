package engine

import "sort"

// Registry maps condition identifiers to handlers. It follows a
// single-writer-then-many-readers discipline: all Register calls complete
// during process initialization, after which concurrent Resolve calls are
// safe without locking.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds identifier to handler. Registering the same identifier
// twice returns a DuplicateHandlerError; callers are expected to treat that
// as fatal at startup.
func (r *Registry) Register(identifier string, h Handler) error {
	if _, exists := r.handlers[identifier]; exists {
		return DuplicateHandlerError{Identifier: identifier}
	}
	r.handlers[identifier] = h
	return nil
}

// Resolve returns the handler bound to identifier, or an
// UnknownConditionError if none is registered.
func (r *Registry) Resolve(identifier string) (Handler, error) {
	h, ok := r.handlers[identifier]
	if !ok {
		return nil, UnknownConditionError{Identifier: identifier}
	}
	return h, nil
}

// Identifiers returns all registered identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

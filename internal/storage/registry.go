package storage

import "errors"

var ErrUnsupportedProvider = errors.New("unsupported storage provider")

// Registry maps a provider identifier to its adapter. Built once at startup,
// read-only afterwards, safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Provider()] = a
	}
	return r
}

// Resolve returns the adapter for a provider id. An unknown provider is an
// error; there is no default backend to fall back to.
func (r *Registry) Resolve(provider string) (Adapter, error) {
	a, ok := r.adapters[provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return a, nil
}

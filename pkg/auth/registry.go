package auth

import "fmt"

// Registry holds the configured providers keyed by ID. It is populated at
// startup and read-only afterwards.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers. Later providers
// with a duplicate ID replace earlier ones.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.ID()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider with the given ID.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, id)
	}
	return p, nil
}

// OAuth returns the OAuth provider with the given ID, or
// ErrUnsupportedProviderType if the ID names a provider of another type.
func (r *Registry) OAuth(id string) (OAuthProvider, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	op, ok := p.(OAuthProvider)
	if !ok || p.Type() != ProviderTypeOAuth {
		return nil, fmt.Errorf("%w: %q is not an oauth provider", ErrUnsupportedProviderType, id)
	}
	return op, nil
}

// Credential returns the registered credential provider, if any.
func (r *Registry) Credential() (*CredentialProvider, error) {
	for _, p := range r.providers {
		if cp, ok := p.(*CredentialProvider); ok {
			return cp, nil
		}
	}
	return nil, fmt.Errorf("%w: no credential provider registered", ErrProviderNotFound)
}

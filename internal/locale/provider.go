package locale

import (
	"context"
	"fmt"
)

// PreferenceKey is the key under which the chosen locale is persisted
const PreferenceKey = "preferredLanguage"

// PreferenceStore persists per-client key-value preferences
type PreferenceStore interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
}

// Provider supplies locale contexts and remembers each client's choice
type Provider struct {
	store PreferenceStore
}

// NewProvider creates a provider backed by the given preference store
func NewProvider(store PreferenceStore) *Provider {
	return &Provider{store: store}
}

// Load returns the client's preferred locale, or Base when none is stored
func (p *Provider) Load(ctx context.Context, clientID string) (*Context, error) {
	value, ok, err := p.store.Get(ctx, clientID, PreferenceKey)
	if err != nil {
		return New(Base), fmt.Errorf("failed to load locale preference: %w", err)
	}
	if !ok {
		return New(Base), nil
	}
	return New(value), nil
}

// Save matches the requested locale and persists the resulting code
func (p *Provider) Save(ctx context.Context, clientID, requested string) (*Context, error) {
	lc := New(requested)
	if err := p.store.Set(ctx, clientID, PreferenceKey, lc.Code()); err != nil {
		return lc, fmt.Errorf("failed to save locale preference: %w", err)
	}
	return lc, nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrUnknownBasemap = errors.New("unknown basemap")
)

// Session is one client's live map
type Session struct {
	ID       string
	ClientID string
	Map      *display.Map
	Binding  *display.Binding

	mu      sync.RWMutex
	locale  *locale.Context
	basemap string
}

// Locale returns the active locale context
func (s *Session) Locale() *locale.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// Basemap returns the name of the active basemap
func (s *Session) Basemap() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.basemap
}

// Manager owns the sessions. Idle sessions expire after the TTL and the
// least recently used are evicted beyond capacity; either way their
// event subscriptions are released.
type Manager struct {
	catalog *config.MapCatalog
	syncer  *display.Synchronizer
	journey *journey.Journey
	locales *locale.Provider
	cache   gcache.Cache
}

// Options tunes the session cache
type Options struct {
	Capacity int
	TTL      time.Duration
	Clock    gcache.Clock // nil uses the real clock
}

// NewManager creates a manager serving j on maps described by catalog
func NewManager(catalog *config.MapCatalog, j *journey.Journey, locales *locale.Provider, opts Options) *Manager {
	m := &Manager{
		catalog: catalog,
		syncer:  display.NewSynchronizer(catalog.DisplayOptions()),
		journey: j,
		locales: locales,
	}

	builder := gcache.New(opts.Capacity).
		LRU().
		Expiration(opts.TTL).
		EvictedFunc(release).
		PurgeVisitorFunc(release)
	if opts.Clock != nil {
		builder = builder.Clock(opts.Clock)
	}
	m.cache = builder.Build()
	return m
}

func release(_, value interface{}) {
	if s, ok := value.(*Session); ok {
		s.Binding.Close()
	}
}

// Create starts a session for clientID (a new client id is issued when
// empty) with the journey displayed on the default basemap
func (m *Manager) Create(ctx context.Context, clientID string) (*Session, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	lc, err := m.locales.Load(ctx, clientID)
	if err != nil {
		log.Printf("Warning: %v (using %s)", err, lc.Code())
	}

	s := &Session{
		ID:       uuid.NewString(),
		ClientID: clientID,
		Map:      m.catalog.NewMap(),
		locale:   lc,
		basemap:  m.catalog.DefaultBasemap,
	}
	s.Binding = display.Bind(s.Map, m.syncer, m.journey, s.Locale)
	s.Map.Ready()

	if err := s.Binding.Err(); err != nil {
		s.Binding.Close()
		return nil, fmt.Errorf("failed to display journey: %w", err)
	}

	if err := m.cache.Set(s.ID, s); err != nil {
		s.Binding.Close()
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(id string) (*Session, error) {
	value, err := m.cache.Get(id)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return value.(*Session), nil
}

// SetBasemap swaps the session's map style. The binding re-displays the
// journey on the new style before this returns.
func (m *Manager) SetBasemap(id, name string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	basemap, ok := m.catalog.Basemap(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBasemap, name)
	}

	s.mu.Lock()
	s.basemap = basemap.Name
	s.mu.Unlock()

	s.Map.SetStyle(basemap.URL)
	if err := s.Binding.Err(); err != nil {
		return s, fmt.Errorf("failed to display journey on %s: %w", basemap.Name, err)
	}
	return s, nil
}

// SetLocale switches the session's language and remembers it for the
// client. A failure to persist is logged; the session still switches.
func (m *Manager) SetLocale(ctx context.Context, id, requested string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	lc, err := m.locales.Save(ctx, s.ClientID, requested)
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	s.mu.Lock()
	s.locale = lc
	s.mu.Unlock()
	return s, nil
}

// Remove ends a session
func (m *Manager) Remove(id string) bool {
	return m.cache.Remove(id)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.cache.Len(true)
}

// Close ends every session
func (m *Manager) Close() {
	m.cache.Purge()
}

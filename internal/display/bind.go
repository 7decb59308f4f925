package display

import (
	"log"
	"sync"

	"github.com/paulmach/orb"

	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
	"github.com/ludobegins/por-ai/internal/popup"
)

// Binding wires a Map's events to the synchronizer and the stop popups.
// It holds no display logic of its own.
type Binding struct {
	m       *Map
	syncer  *Synchronizer
	journey *journey.Journey
	locale  func() *locale.Context

	mu      sync.Mutex
	lastErr error
	subs    []Subscription
}

// Bind subscribes to the map's load and style-swap events (each re-runs
// EnsureJourneyDisplayed) and to pointer events on the stops layer. The
// locale function is consulted on every hover so language changes apply
// to the next popup.
func Bind(m *Map, s *Synchronizer, j *journey.Journey, localeFn func() *locale.Context) *Binding {
	b := &Binding{m: m, syncer: s, journey: j, locale: localeFn}
	b.subs = []Subscription{
		m.On(EventLoad, b.display),
		m.On(EventStyleLoad, b.display),
		m.OnHover(PointsLayerID, b.showPopup),
		m.OnLeave(PointsLayerID, m.ClosePopup),
	}
	return b
}

// Err returns the error of the most recent synchronization, if it failed
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Close disposes every subscription
func (b *Binding) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
}

func (b *Binding) display() {
	err := b.syncer.EnsureJourneyDisplayed(b.m, b.journey)
	if err != nil {
		log.Printf("Warning: failed to display journey on %s: %v", b.m.Style(), err)
	}

	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
}

func (b *Binding) showPopup(ev HoverEvent) {
	if ev.Feature == nil {
		return
	}
	content := popup.Build(ev.Feature.Properties, b.locale())
	html, err := popup.Render(content)
	if err != nil {
		log.Printf("Warning: failed to render popup: %v", err)
		return
	}

	at := ev.LngLat
	if p, ok := ev.Feature.Geometry.(orb.Point); ok {
		at = popup.WrapLongitude(p, ev.LngLat)
	}
	b.m.ShowPopup(Popup{LngLat: at, HTML: html, Content: content})
}

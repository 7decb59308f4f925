package display

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Event is a surface lifecycle event
type Event string

const (
	EventLoad      Event = "load"       // Surface ready for the first time
	EventStyleLoad Event = "style.load" // A style swap completed; all sources and layers are gone
)

// HoverEvent is delivered when the pointer enters a feature of a layer
type HoverEvent struct {
	Layer        string
	FeatureIndex int
	Feature      *geojson.Feature
	LngLat       orb.Point // Cursor position
}

// Subscription is a handle to a registered handler
type Subscription interface {
	// Dispose unregisters the handler. Calling it more than once is harmless.
	Dispose()
}

type subscription struct {
	once    sync.Once
	dispose func()
}

func (s *subscription) Dispose() {
	s.once.Do(s.dispose)
}

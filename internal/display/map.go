package display

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ludobegins/por-ai/internal/popup"
)

// Camera is the initial viewpoint of the map
type Camera struct {
	Center  orb.Point `json:"center"` // [lng, lat]
	Zoom    float64   `json:"zoom"`
	Pitch   float64   `json:"pitch"`
	Bearing float64   `json:"bearing"`
}

// Fog is the atmosphere applied on top of every basemap
type Fog struct {
	Range        [2]float64 `json:"range"`
	Color        string     `json:"color"`
	HorizonBlend float64    `json:"horizon-blend"`
}

// Popup is the popup currently open on the map
type Popup struct {
	LngLat  orb.Point     `json:"lngLat"`
	HTML    string        `json:"html"`
	Content popup.Content `json:"content"`
}

// Document is a serialisable snapshot of the map state, shaped like a
// Mapbox GL style so a browser client can apply it on top of the basemap
type Document struct {
	Version  int                   `json:"version"`
	StyleURL string                `json:"styleUrl"`
	Center   orb.Point             `json:"center"`
	Zoom     float64               `json:"zoom"`
	Pitch    float64               `json:"pitch"`
	Bearing  float64               `json:"bearing"`
	Fog      *Fog                  `json:"fog,omitempty"`
	Terrain  *TerrainSpec          `json:"terrain,omitempty"`
	Sources  map[string]SourceSpec `json:"sources"`
	Layers   []LayerSpec           `json:"layers"`
}

// Map is an in-memory display surface mirroring the browser map's registry
// of sources and layers. It is safe for concurrent use; handlers are invoked
// without the lock held so they may call back into the map.
type Map struct {
	mu      sync.Mutex
	style   string
	camera  Camera
	fog     *Fog
	loaded  bool
	sources map[string]SourceSpec
	layers  []LayerSpec
	terrain *TerrainSpec
	popup   *Popup

	nextID   uint64
	handlers map[Event]map[uint64]func()
	enter    map[string]map[uint64]func(HoverEvent)
	leave    map[string]map[uint64]func()
}

// NewMap creates an empty surface on the given basemap style
func NewMap(styleURL string, camera Camera, fog *Fog) *Map {
	return &Map{
		style:    styleURL,
		camera:   camera,
		fog:      fog,
		sources:  make(map[string]SourceSpec),
		handlers: make(map[Event]map[uint64]func()),
		enter:    make(map[string]map[uint64]func(HoverEvent)),
		leave:    make(map[string]map[uint64]func()),
	}
}

// AddSource registers a source; an existing id is reported as ErrSourceExists
func (m *Map) AddSource(id string, spec SourceSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sources[id]; ok {
		return fmt.Errorf("%s: %w", id, ErrSourceExists)
	}
	m.sources[id] = spec
	return nil
}

// Source returns the source registered under id
func (m *Map) Source(id string) (SourceSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	spec, ok := m.sources[id]
	return spec, ok
}

// AddLayer registers a layer on top of the existing ones. The layer's source
// must already exist.
func (m *Map) AddLayer(spec LayerSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.layerIndex(spec.ID) >= 0 {
		return fmt.Errorf("%s: %w", spec.ID, ErrLayerExists)
	}
	if _, ok := m.sources[spec.Source]; !ok {
		return fmt.Errorf("layer %s references %s: %w", spec.ID, spec.Source, ErrUnknownSource)
	}
	m.layers = append(m.layers, spec)
	return nil
}

// Layer returns the layer registered under id
func (m *Map) Layer(id string) (LayerSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.layerIndex(id); i >= 0 {
		return m.layers[i], true
	}
	return LayerSpec{}, false
}

func (m *Map) layerIndex(id string) int {
	for i, l := range m.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// SetTerrain applies terrain settings
func (m *Map) SetTerrain(spec TerrainSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.terrain = &spec
}

// Terrain returns the current terrain settings, if any
func (m *Map) Terrain() (TerrainSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.terrain == nil {
		return TerrainSpec{}, false
	}
	return *m.terrain, true
}

// Style returns the active basemap style URL
func (m *Map) Style() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.style
}

// SetStyle swaps the basemap. Like a real map, this drops every source,
// layer, the terrain and any open popup, then fires EventStyleLoad.
func (m *Map) SetStyle(styleURL string) {
	m.mu.Lock()
	m.style = styleURL
	m.sources = make(map[string]SourceSpec)
	m.layers = nil
	m.terrain = nil
	m.popup = nil
	m.loaded = true
	m.mu.Unlock()

	m.fire(EventStyleLoad)
}

// Ready marks the surface as loaded and fires EventLoad. Only the first call
// has any effect.
func (m *Map) Ready() {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return
	}
	m.loaded = true
	m.mu.Unlock()

	m.fire(EventLoad)
}

// On subscribes to a lifecycle event
func (m *Map) On(event Event, fn func()) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextHandlerID()
	if m.handlers[event] == nil {
		m.handlers[event] = make(map[uint64]func())
	}
	m.handlers[event][id] = fn

	return &subscription{dispose: func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers[event], id)
	}}
}

// OnHover subscribes to the pointer entering a feature of the given layer
func (m *Map) OnHover(layerID string, fn func(HoverEvent)) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextHandlerID()
	if m.enter[layerID] == nil {
		m.enter[layerID] = make(map[uint64]func(HoverEvent))
	}
	m.enter[layerID][id] = fn

	return &subscription{dispose: func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.enter[layerID], id)
	}}
}

// OnLeave subscribes to the pointer leaving the given layer
func (m *Map) OnLeave(layerID string, fn func()) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextHandlerID()
	if m.leave[layerID] == nil {
		m.leave[layerID] = make(map[uint64]func())
	}
	m.leave[layerID][id] = fn

	return &subscription{dispose: func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.leave[layerID], id)
	}}
}

// Hover dispatches a pointer-enter event for feature featureIndex of the
// layer's source, with the cursor at lngLat
func (m *Map) Hover(layerID string, featureIndex int, lngLat orb.Point) error {
	m.mu.Lock()
	i := m.layerIndex(layerID)
	if i < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", layerID, ErrUnknownLayer)
	}
	source := m.sources[m.layers[i].Source]
	fc, ok := source.Data.(*geojson.FeatureCollection)
	if !ok || featureIndex < 0 || featureIndex >= len(fc.Features) {
		m.mu.Unlock()
		return fmt.Errorf("%s[%d]: %w", layerID, featureIndex, ErrFeatureNotFound)
	}
	ev := HoverEvent{
		Layer:        layerID,
		FeatureIndex: featureIndex,
		Feature:      fc.Features[featureIndex],
		LngLat:       lngLat,
	}
	fns := make([]func(HoverEvent), 0, len(m.enter[layerID]))
	for _, id := range sortedIDs(m.enter[layerID]) {
		fns = append(fns, m.enter[layerID][id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

// Leave dispatches a pointer-leave event for the layer
func (m *Map) Leave(layerID string) {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.leave[layerID]))
	for _, id := range sortedIDs(m.leave[layerID]) {
		fns = append(fns, m.leave[layerID][id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ShowPopup opens (or replaces) the popup
func (m *Map) ShowPopup(p Popup) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.popup = &p
}

// ClosePopup removes the popup if one is open
func (m *Map) ClosePopup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.popup = nil
}

// Popup returns the open popup
func (m *Map) Popup() (Popup, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.popup == nil {
		return Popup{}, false
	}
	return *m.popup, true
}

// Document snapshots the map as a style document
func (m *Map) Document() Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := Document{
		Version:  8,
		StyleURL: m.style,
		Center:   m.camera.Center,
		Zoom:     m.camera.Zoom,
		Pitch:    m.camera.Pitch,
		Bearing:  m.camera.Bearing,
		Sources:  make(map[string]SourceSpec, len(m.sources)),
		Layers:   append([]LayerSpec{}, m.layers...),
	}
	if m.fog != nil {
		fog := *m.fog
		doc.Fog = &fog
	}
	if m.terrain != nil {
		terrain := *m.terrain
		doc.Terrain = &terrain
	}
	for id, spec := range m.sources {
		doc.Sources[id] = spec
	}
	return doc
}

func (m *Map) fire(event Event) {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.handlers[event]))
	for _, id := range sortedIDs(m.handlers[event]) {
		fns = append(fns, m.handlers[event][id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// nextHandlerID must be called with mu held
func (m *Map) nextHandlerID() uint64 {
	m.nextID++
	return m.nextID
}

// sortedIDs keeps handlers firing in subscription order
func sortedIDs[F any](handlers map[uint64]F) []uint64 {
	ids := make([]uint64, 0, len(handlers))
	for id := range handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

package display

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ludobegins/por-ai/internal/journey"
)

func testJourney(t *testing.T) *journey.Journey {
	t.Helper()

	fc := geojson.NewFeatureCollection()
	add := func(p orb.Point, transport interface{}, name string) {
		f := geojson.NewFeature(p)
		f.Properties["transport_to_here"] = transport
		f.Properties["place_name_pt"] = name
		f.Properties["arrival_date"] = "2025-01-01"
		fc.Append(f)
	}
	add(orb.Point{-55, -10}, nil, "Natal")
	add(orb.Point{-47, -4}, "bicycle", "Fortaleza")
	add(orb.Point{-40, -3}, "boat", "Belém")

	j, err := journey.NewJourney(fc)
	if err != nil {
		t.Fatalf("NewJourney failed: %v", err)
	}
	return j
}

func newTestMap() *Map {
	return NewMap("mapbox://styles/mapbox/outdoors-v12", Camera{Center: orb.Point{-47, -4}, Zoom: 3}, nil)
}

// countingSurface wraps a Map and counts create calls
type countingSurface struct {
	*Map
	mu          sync.Mutex
	sourceAdds  int
	layerAdds   int
	terrainSets int
}

func (c *countingSurface) AddSource(id string, spec SourceSpec) error {
	c.mu.Lock()
	c.sourceAdds++
	c.mu.Unlock()
	return c.Map.AddSource(id, spec)
}

func (c *countingSurface) AddLayer(spec LayerSpec) error {
	c.mu.Lock()
	c.layerAdds++
	c.mu.Unlock()
	return c.Map.AddLayer(spec)
}

func (c *countingSurface) SetTerrain(spec TerrainSpec) {
	c.mu.Lock()
	c.terrainSets++
	c.mu.Unlock()
	c.Map.SetTerrain(spec)
}

func registry(m *Map) ([]string, []string) {
	doc := m.Document()
	sources := make([]string, 0, len(doc.Sources))
	for id := range doc.Sources {
		sources = append(sources, id)
	}
	sort.Strings(sources)
	layers := make([]string, 0, len(doc.Layers))
	for _, l := range doc.Layers {
		layers = append(layers, l.ID)
	}
	return sources, layers
}

func TestEnsureJourneyDisplayedPopulatesEmptySurface(t *testing.T) {
	m := newTestMap()
	s := NewSynchronizer(DefaultOptions())

	if err := s.EnsureJourneyDisplayed(m, testJourney(t)); err != nil {
		t.Fatalf("EnsureJourneyDisplayed failed: %v", err)
	}

	sources, layers := registry(m)
	wantSources := []string{DEMSourceID, PointsSourceID, SegmentsSourceID}
	sort.Strings(wantSources)
	if !reflect.DeepEqual(sources, wantSources) {
		t.Errorf("sources = %v, want %v", sources, wantSources)
	}
	if !reflect.DeepEqual(layers, []string{PointsLayerID, SegmentsLayerID}) {
		t.Errorf("layers = %v", layers)
	}

	terrain, ok := m.Terrain()
	if !ok || terrain.Source != DEMSourceID || terrain.Exaggeration != 2 {
		t.Errorf("terrain = %+v, %v", terrain, ok)
	}

	dem, _ := m.Source(DEMSourceID)
	if dem.Type != "raster-dem" || dem.TileSize != 512 || dem.MaxZoom != 14 {
		t.Errorf("dem source = %+v", dem)
	}

	seg, _ := m.Source(SegmentsSourceID)
	fc, ok := seg.Data.(*geojson.FeatureCollection)
	if !ok || len(fc.Features) != 2 {
		t.Fatalf("segments source data = %#v", seg.Data)
	}
	if fc.Features[0].Properties["transport"] != "bicycle" || fc.Features[1].Properties["transport"] != "boat" {
		t.Errorf("segment transports = %v, %v", fc.Features[0].Properties["transport"], fc.Features[1].Properties["transport"])
	}

	points, _ := m.Source(PointsSourceID)
	if _, ok := points.Data.(*geojson.FeatureCollection); !ok {
		t.Errorf("points source should be backed by the raw collection, got %T", points.Data)
	}

	layer, _ := m.Layer(PointsLayerID)
	if layer.Type != "circle" || layer.Paint["circle-color"] != "#007cbf" || layer.Paint["circle-stroke-color"] != "white" {
		t.Errorf("points layer = %+v", layer)
	}
}

func TestEnsureJourneyDisplayedIsIdempotent(t *testing.T) {
	surface := &countingSurface{Map: newTestMap()}
	s := NewSynchronizer(DefaultOptions())
	j := testJourney(t)

	if err := s.EnsureJourneyDisplayed(surface, j); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	sources, layers := registry(surface.Map)

	if err := s.EnsureJourneyDisplayed(surface, j); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	sources2, layers2 := registry(surface.Map)

	if !reflect.DeepEqual(sources, sources2) || !reflect.DeepEqual(layers, layers2) {
		t.Errorf("registry changed: %v/%v -> %v/%v", sources, layers, sources2, layers2)
	}
	if surface.sourceAdds != 3 || surface.layerAdds != 2 {
		t.Errorf("second call created again: %d source adds, %d layer adds", surface.sourceAdds, surface.layerAdds)
	}
	if surface.terrainSets != 2 {
		t.Errorf("terrain should be re-applied on every call, got %d sets", surface.terrainSets)
	}
}

func TestEnsureJourneyDisplayedAfterStyleSwap(t *testing.T) {
	m := newTestMap()
	s := NewSynchronizer(DefaultOptions())
	j := testJourney(t)

	if err := s.EnsureJourneyDisplayed(m, j); err != nil {
		t.Fatal(err)
	}
	before, beforeLayers := registry(m)

	m.SetStyle("mapbox://styles/mapbox/dark-v11")
	sources, layers := registry(m)
	if len(sources) != 0 || len(layers) != 0 {
		t.Fatalf("style swap should empty the surface, got %v %v", sources, layers)
	}
	if _, ok := m.Terrain(); ok {
		t.Error("style swap should drop terrain")
	}

	if err := s.EnsureJourneyDisplayed(m, j); err != nil {
		t.Fatalf("re-sync failed: %v", err)
	}
	after, afterLayers := registry(m)
	if !reflect.DeepEqual(before, after) || !reflect.DeepEqual(beforeLayers, afterLayers) {
		t.Errorf("repopulated registry %v %v differs from %v %v", after, afterLayers, before, beforeLayers)
	}
	if m.Style() != "mapbox://styles/mapbox/dark-v11" {
		t.Errorf("style = %s", m.Style())
	}
}

func TestEnsureJourneyDisplayedEmptyJourney(t *testing.T) {
	m := newTestMap()
	j, _ := journey.NewJourney(geojson.NewFeatureCollection())
	if err := NewSynchronizer(DefaultOptions()).EnsureJourneyDisplayed(m, j); err != nil {
		t.Fatalf("empty journey failed: %v", err)
	}
	seg, ok := m.Source(SegmentsSourceID)
	if !ok {
		t.Fatal("segments source should exist even with no segments")
	}
	if fc := seg.Data.(*geojson.FeatureCollection); len(fc.Features) != 0 {
		t.Errorf("got %d segment features, want 0", len(fc.Features))
	}
}

// racingSurface reports every id as absent, so creation always races
type racingSurface struct {
	*Map
}

func (r racingSurface) Source(string) (SourceSpec, bool) { return SourceSpec{}, false }
func (r racingSurface) Layer(string) (LayerSpec, bool)   { return LayerSpec{}, false }

func TestEnsureJourneyDisplayedToleratesLostRace(t *testing.T) {
	m := newTestMap()
	s := NewSynchronizer(DefaultOptions())
	j := testJourney(t)

	if err := s.EnsureJourneyDisplayed(m, j); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureJourneyDisplayed(racingSurface{m}, j); err != nil {
		t.Fatalf("duplicate id after a lost race should not fail: %v", err)
	}
	if _, layers := registry(m); len(layers) != 2 {
		t.Errorf("got %d layers, want 2", len(layers))
	}
}

func TestEnsureJourneyDisplayedConcurrent(t *testing.T) {
	m := newTestMap()
	s := NewSynchronizer(DefaultOptions())
	j := testJourney(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.EnsureJourneyDisplayed(m, j)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
	sources, layers := registry(m)
	if len(sources) != 3 || len(layers) != 2 {
		t.Errorf("concurrent calls produced %v %v", sources, layers)
	}
}

type failingSurface struct {
	*Map
}

func (f failingSurface) AddSource(id string, spec SourceSpec) error {
	return errors.New("quota exceeded")
}

func TestEnsureJourneyDisplayedPropagatesErrors(t *testing.T) {
	err := NewSynchronizer(DefaultOptions()).EnsureJourneyDisplayed(failingSurface{newTestMap()}, testJourney(t))
	if err == nil {
		t.Fatal("expected an error")
	}
}

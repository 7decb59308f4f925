package display

import (
	"errors"
	"fmt"

	"github.com/ludobegins/por-ai/internal/journey"
)

// Stable source and layer identifiers
const (
	DEMSourceID      = "mapbox-dem"
	PointsSourceID   = "journey-points"
	PointsLayerID    = "points-layer"
	SegmentsSourceID = "route-lines"
	SegmentsLayerID  = "lines-layer"
)

// Options holds the constant display parameters of the journey layers
type Options struct {
	// Terrain
	DEMURL       string
	DEMTileSize  int
	DEMMaxZoom   float64
	Exaggeration float64

	// Stop markers
	PointRadius      float64
	PointStrokeWidth float64
	PointColor       string
	PointStrokeColor string

	// Route lines
	LineWidth float64
}

// DefaultOptions returns the parameters used by the public journey map
func DefaultOptions() Options {
	return Options{
		DEMURL:           "mapbox://mapbox.mapbox-terrain-dem-v1",
		DEMTileSize:      512,
		DEMMaxZoom:       14,
		Exaggeration:     2,
		PointRadius:      6,
		PointStrokeWidth: 2,
		PointColor:       "#007cbf",
		PointStrokeColor: "white",
		LineWidth:        3,
	}
}

// Synchronizer makes a surface show the journey, creating only what is missing
type Synchronizer struct {
	opts Options
}

// NewSynchronizer creates a synchronizer with the given display parameters
func NewSynchronizer(opts Options) *Synchronizer {
	return &Synchronizer{opts: opts}
}

// EnsureJourneyDisplayed registers the terrain, points and route segment
// sources and layers on the surface. Anything already registered under its
// id is left alone, so repeated calls are no-ops apart from terrain, which is
// always re-applied. After a style swap has emptied the surface, calling it
// again rebuilds everything.
func (s *Synchronizer) EnsureJourneyDisplayed(surface Surface, j *journey.Journey) error {
	// 1. Terrain
	err := ensureSource(surface, DEMSourceID, SourceSpec{
		Type:     "raster-dem",
		URL:      s.opts.DEMURL,
		TileSize: s.opts.DEMTileSize,
		MaxZoom:  s.opts.DEMMaxZoom,
	})
	if err != nil {
		return err
	}
	surface.SetTerrain(TerrainSpec{Source: DEMSourceID, Exaggeration: s.opts.Exaggeration})

	// 2. Stops
	if err := ensureSource(surface, PointsSourceID, SourceSpec{Type: "geojson", Data: j.Collection}); err != nil {
		return err
	}
	if err := ensureLayer(surface, s.pointsLayer()); err != nil {
		return err
	}

	// 3. Route segments, derived fresh on every pass
	segments := journey.SegmentCollection(journey.DeriveSegments(j.Stops))
	if err := ensureSource(surface, SegmentsSourceID, SourceSpec{Type: "geojson", Data: segments}); err != nil {
		return err
	}
	return ensureLayer(surface, s.segmentsLayer())
}

func (s *Synchronizer) pointsLayer() LayerSpec {
	return LayerSpec{
		ID:     PointsLayerID,
		Type:   "circle",
		Source: PointsSourceID,
		Paint: map[string]interface{}{
			"circle-radius":       s.opts.PointRadius,
			"circle-stroke-width": s.opts.PointStrokeWidth,
			"circle-color":        s.opts.PointColor,
			"circle-stroke-color": s.opts.PointStrokeColor,
		},
	}
}

func (s *Synchronizer) segmentsLayer() LayerSpec {
	return LayerSpec{
		ID:     SegmentsLayerID,
		Type:   "line",
		Source: SegmentsSourceID,
		Layout: map[string]interface{}{
			"line-join": "round",
			"line-cap":  "round",
		},
		Paint: map[string]interface{}{
			"line-width":     s.opts.LineWidth,
			"line-color":     LineColorExpression(),
			"line-dasharray": LineDashExpression(),
		},
	}
}

// ensureSource checks then creates. Losing a creation race to another caller
// shows up as ErrSourceExists and counts as success.
func ensureSource(surface Surface, id string, spec SourceSpec) error {
	if _, ok := surface.Source(id); ok {
		return nil
	}
	if err := surface.AddSource(id, spec); err != nil && !errors.Is(err, ErrSourceExists) {
		return fmt.Errorf("failed to add source %s: %w", id, err)
	}
	return nil
}

func ensureLayer(surface Surface, spec LayerSpec) error {
	if _, ok := surface.Layer(spec.ID); ok {
		return nil
	}
	if err := surface.AddLayer(spec); err != nil && !errors.Is(err, ErrLayerExists) {
		return fmt.Errorf("failed to add layer %s: %w", spec.ID, err)
	}
	return nil
}

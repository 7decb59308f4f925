package display

import (
	"errors"
)

var (
	ErrSourceExists    = errors.New("source already exists")
	ErrLayerExists     = errors.New("layer already exists")
	ErrUnknownSource   = errors.New("source does not exist")
	ErrUnknownLayer    = errors.New("layer does not exist")
	ErrFeatureNotFound = errors.New("feature not found in layer source")
)

// SourceSpec describes a data source registered on a surface
type SourceSpec struct {
	Type     string      `json:"type"` // "geojson" or "raster-dem"
	URL      string      `json:"url,omitempty"`
	TileSize int         `json:"tileSize,omitempty"`
	MaxZoom  float64     `json:"maxzoom,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// LayerSpec describes a visual layer drawing one source
type LayerSpec struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"` // "circle", "line", ...
	Source string                 `json:"source"`
	Layout map[string]interface{} `json:"layout,omitempty"`
	Paint  map[string]interface{} `json:"paint,omitempty"`
}

// TerrainSpec configures 3D relief from a raster-dem source
type TerrainSpec struct {
	Source       string  `json:"source"`
	Exaggeration float64 `json:"exaggeration"`
}

// Surface is the part of a map display the synchronizer depends on:
// existence checks and creation of sources and layers, plus terrain.
// AddSource and AddLayer must fail with ErrSourceExists / ErrLayerExists
// rather than registering a duplicate id.
type Surface interface {
	AddSource(id string, spec SourceSpec) error
	Source(id string) (SourceSpec, bool)
	AddLayer(spec LayerSpec) error
	Layer(id string) (LayerSpec, bool)
	SetTerrain(spec TerrainSpec)
}

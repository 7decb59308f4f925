package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/ludobegins/por-ai/internal/display"
)

// Basemap is a selectable background style
type Basemap struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	URL      string `yaml:"url" json:"url" validate:"required,url"`
	LabelKey string `yaml:"labelKey" json:"labelKey"` // Translation key for the switcher label
}

// ViewportConfig is the initial camera
type ViewportConfig struct {
	Longitude float64 `yaml:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
	Latitude  float64 `yaml:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Zoom      float64 `yaml:"zoom" json:"zoom" validate:"gte=0,lte=22"`
	Pitch     float64 `yaml:"pitch" json:"pitch" validate:"gte=0,lte=85"`
	Bearing   float64 `yaml:"bearing" json:"bearing" validate:"gte=-360,lte=360"`
}

// FogConfig is the atmosphere drawn over every basemap
type FogConfig struct {
	Range        [2]float64 `yaml:"range"`
	Color        string     `yaml:"color" validate:"required"`
	HorizonBlend float64    `yaml:"horizonBlend" validate:"gte=0,lte=1"`
}

// TerrainConfig describes the elevation source and its exaggeration
type TerrainConfig struct {
	URL          string  `yaml:"url" validate:"required,url"`
	TileSize     int     `yaml:"tileSize" validate:"gt=0"`
	MaxZoom      float64 `yaml:"maxZoom" validate:"gte=0,lte=22"`
	Exaggeration float64 `yaml:"exaggeration" validate:"gte=0"`
}

// PointStyle is the fixed marker style of the stops
type PointStyle struct {
	Radius      float64 `yaml:"radius" validate:"gt=0"`
	StrokeWidth float64 `yaml:"strokeWidth" validate:"gte=0"`
	Color       string  `yaml:"color" validate:"required"`
	StrokeColor string  `yaml:"strokeColor" validate:"required"`
}

// LineStyle is the fixed part of the route line style
type LineStyle struct {
	Width float64 `yaml:"width" validate:"gt=0"`
}

// MapCatalog is everything about the map that is not journey data
type MapCatalog struct {
	DefaultBasemap string         `yaml:"defaultBasemap" validate:"required"`
	Basemaps       []Basemap      `yaml:"basemaps" validate:"required,min=1,dive"`
	Viewport       ViewportConfig `yaml:"viewport"`
	Fog            *FogConfig     `yaml:"fog" validate:"omitempty"`
	Terrain        TerrainConfig  `yaml:"terrain"`
	Points         PointStyle     `yaml:"points"`
	Lines          LineStyle      `yaml:"lines"`
}

// DefaultMapCatalog returns the catalog of the public journey map
func DefaultMapCatalog() *MapCatalog {
	opts := display.DefaultOptions()
	return &MapCatalog{
		DefaultBasemap: "outdoors-v12",
		Basemaps: []Basemap{
			{Name: "outdoors-v12", URL: "mapbox://styles/mapbox/outdoors-v12", LabelKey: "basemap-outdoors"},
			{Name: "dark-v11", URL: "mapbox://styles/mapbox/dark-v11", LabelKey: "basemap-dark"},
			{Name: "satellite-streets-v12", URL: "mapbox://styles/mapbox/satellite-streets-v12", LabelKey: "basemap-satellite"},
		},
		Viewport: ViewportConfig{Longitude: -47, Latitude: -4, Zoom: 3, Pitch: 45, Bearing: -17.6},
		Fog:      &FogConfig{Range: [2]float64{-1, 2}, Color: "#ffffff", HorizonBlend: 0.3},
		Terrain: TerrainConfig{
			URL:          opts.DEMURL,
			TileSize:     opts.DEMTileSize,
			MaxZoom:      opts.DEMMaxZoom,
			Exaggeration: opts.Exaggeration,
		},
		Points: PointStyle{
			Radius:      opts.PointRadius,
			StrokeWidth: opts.PointStrokeWidth,
			Color:       opts.PointColor,
			StrokeColor: opts.PointStrokeColor,
		},
		Lines: LineStyle{Width: opts.LineWidth},
	}
}

// LoadMapCatalog overlays the YAML file at path onto the defaults and validates the result
func LoadMapCatalog(path string) (*MapCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	catalog := DefaultMapCatalog()
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate checks field ranges and that the default basemap is in the list
func (c *MapCatalog) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if _, ok := c.Basemap(c.DefaultBasemap); !ok {
		return fmt.Errorf("default basemap %q is not in the basemap list", c.DefaultBasemap)
	}
	return nil
}

// Basemap looks up a basemap by name
func (c *MapCatalog) Basemap(name string) (Basemap, bool) {
	for _, b := range c.Basemaps {
		if b.Name == name {
			return b, true
		}
	}
	return Basemap{}, false
}

// DefaultStyleURL returns the style URL of the default basemap
func (c *MapCatalog) DefaultStyleURL() string {
	b, _ := c.Basemap(c.DefaultBasemap)
	return b.URL
}

// DisplayOptions converts the catalog into synchronizer parameters
func (c *MapCatalog) DisplayOptions() display.Options {
	return display.Options{
		DEMURL:           c.Terrain.URL,
		DEMTileSize:      c.Terrain.TileSize,
		DEMMaxZoom:       c.Terrain.MaxZoom,
		Exaggeration:     c.Terrain.Exaggeration,
		PointRadius:      c.Points.Radius,
		PointStrokeWidth: c.Points.StrokeWidth,
		PointColor:       c.Points.Color,
		PointStrokeColor: c.Points.StrokeColor,
		LineWidth:        c.Lines.Width,
	}
}

// Camera returns the initial camera
func (c *MapCatalog) Camera() display.Camera {
	return display.Camera{
		Center:  orb.Point{c.Viewport.Longitude, c.Viewport.Latitude},
		Zoom:    c.Viewport.Zoom,
		Pitch:   c.Viewport.Pitch,
		Bearing: c.Viewport.Bearing,
	}
}

// FogSpec returns the fog, or nil when disabled
func (c *MapCatalog) FogSpec() *display.Fog {
	if c.Fog == nil {
		return nil
	}
	return &display.Fog{Range: c.Fog.Range, Color: c.Fog.Color, HorizonBlend: c.Fog.HorizonBlend}
}

// NewMap creates an empty display surface on the default basemap
func (c *MapCatalog) NewMap() *display.Map {
	return display.NewMap(c.DefaultStyleURL(), c.Camera(), c.FogSpec())
}

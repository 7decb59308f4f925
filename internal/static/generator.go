package static

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/journey"
)

// GeneratorVersion is bumped whenever the bundle layout changes so existing
// bundles are regenerated regardless of age
const GeneratorVersion = "1"

const (
	PointsFile   = "points.geojson"
	SegmentsFile = "segments.geojson"
	ManifestFile = "manifest.json"
)

// Manifest represents the manifest.json structure
type Manifest struct {
	Points           FileEntry        `json:"points"`
	Segments         FileEntry        `json:"segments"`
	Summary          Summary          `json:"summary"`
	Bounds           *[2][2]float64   `json:"bounds,omitempty"` // [[minLng, minLat], [maxLng, maxLat]]
	Viewport         Viewport         `json:"viewport"`
	DefaultBasemap   string           `json:"default_basemap"`
	Basemaps         []config.Basemap `json:"basemaps"`
	UpdatedAt        string           `json:"updated_at"`
	GeneratedAt      string           `json:"generated_at,omitempty"` // Legacy field, read but no longer written
	GeneratorVersion string           `json:"generator_version,omitempty"`
}

// FileEntry represents a file entry
type FileEntry struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Features int    `json:"features"`
}

// Summary totals the route
type Summary struct {
	Stops   int                `json:"stops"`
	TotalKm float64            `json:"total_km"`
	ByMode  map[string]float64 `json:"by_mode"`
}

// Viewport contains the initial camera
type Viewport struct {
	Center  Center  `json:"center"`
	Zoom    float64 `json:"zoom"`
	Pitch   float64 `json:"pitch"`
	Bearing float64 `json:"bearing"`
}

// Center contains center coordinates
type Center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Generate writes the journey's stops, its derived route segments and a
// manifest describing them into outputDir
func Generate(j *journey.Journey, catalog *config.MapCatalog, outputDir string) (*Manifest, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// points.geojson
	pointsChecksum, err := writeGeoJSON(filepath.Join(outputDir, PointsFile), j.Collection.MarshalJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", PointsFile, err)
	}

	// segments.geojson
	segments := journey.DeriveSegments(j.Stops)
	segmentCollection := journey.SegmentCollection(segments)
	segmentsChecksum, err := writeGeoJSON(filepath.Join(outputDir, SegmentsFile), segmentCollection.MarshalJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", SegmentsFile, err)
	}

	summary := journey.Summarize(segments)
	byMode := make(map[string]float64, len(summary.ByMode))
	for _, t := range summary.ByMode {
		name := string(t.Transport)
		if name == "" {
			name = "unknown"
		}
		byMode[name] = t.Km
	}

	manifest := &Manifest{
		Points: FileEntry{
			Path:     PointsFile,
			Checksum: pointsChecksum,
			Features: len(j.Stops),
		},
		Segments: FileEntry{
			Path:     SegmentsFile,
			Checksum: segmentsChecksum,
			Features: len(segments),
		},
		Summary: Summary{
			Stops:   len(j.Stops),
			TotalKm: summary.TotalKm,
			ByMode:  byMode,
		},
		Viewport: Viewport{
			Center:  Center{Lat: catalog.Viewport.Latitude, Lng: catalog.Viewport.Longitude},
			Zoom:    catalog.Viewport.Zoom,
			Pitch:   catalog.Viewport.Pitch,
			Bearing: catalog.Viewport.Bearing,
		},
		DefaultBasemap:   catalog.DefaultBasemap,
		Basemaps:         catalog.Basemaps,
		UpdatedAt:        time.Now().UTC().Format(time.RFC3339),
		GeneratorVersion: GeneratorVersion,
	}
	if len(j.Stops) > 0 {
		b := j.Bounds()
		manifest.Bounds = &[2][2]float64{
			{b.Min.Lon(), b.Min.Lat()},
			{b.Max.Lon(), b.Max.Lat()},
		}
	}

	if err := writeJSON(filepath.Join(outputDir, ManifestFile), manifest); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", ManifestFile, err)
	}

	log.Printf("Journey: generated %d stops, %d segments (%.1f km)", len(j.Stops), len(segments), summary.TotalKm)
	return manifest, nil
}

// PointsChecksum is the checksum Generate records for the journey's stops
func PointsChecksum(j *journey.Journey) (string, error) {
	data, err := j.Collection.MarshalJSON()
	if err != nil {
		return "", err
	}
	return sha256Sum(data), nil
}

func writeGeoJSON(path string, marshal func() ([]byte, error)) (string, error) {
	data, err := marshal()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return sha256Sum(data), nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func sha256Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
)

func loadTestJourney(t *testing.T) *journey.Journey {
	t.Helper()
	j, err := journey.LoadFile(filepath.Join("..", "..", "internal", "journey", "testdata", "journey.geojson"))
	if err != nil {
		t.Fatalf("failed to load journey: %v", err)
	}
	return j
}

func TestPrintSegments(t *testing.T) {
	var out bytes.Buffer
	printSegments(&out, loadTestJourney(t), locale.New("en"))

	got := out.String()
	for _, want := range []string{"Natal", "Fortaleza", "Belem", "bicycle", "boat", "(dashed)", "2 segments"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintSegmentsSingleStop(t *testing.T) {
	j, err := journey.Parse([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-35,-6]},"properties":{}}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	printSegments(&out, j, locale.New(locale.Base))
	if !strings.Contains(out.String(), "no segments") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBuildStyle(t *testing.T) {
	catalog := config.DefaultMapCatalog()
	j := loadTestJourney(t)

	doc, err := buildStyle(catalog, j, "dark-v11")
	if err != nil {
		t.Fatalf("buildStyle failed: %v", err)
	}
	if doc.StyleURL != "mapbox://styles/mapbox/dark-v11" {
		t.Errorf("styleUrl = %q", doc.StyleURL)
	}
	if len(doc.Layers) != 2 || doc.Layers[0].ID != display.PointsLayerID || doc.Layers[1].ID != display.SegmentsLayerID {
		t.Errorf("layers = %+v", doc.Layers)
	}
	if doc.Terrain == nil || doc.Terrain.Source != display.DEMSourceID {
		t.Errorf("terrain = %+v", doc.Terrain)
	}

	var out bytes.Buffer
	if err := writeDocument(&out, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"version": 8`) {
		t.Errorf("document JSON missing version:\n%s", out.String())
	}
}

func TestBuildStyleUnknownBasemap(t *testing.T) {
	if _, err := buildStyle(config.DefaultMapCatalog(), loadTestJourney(t), "watercolor"); err == nil {
		t.Error("unknown basemap accepted")
	}
}

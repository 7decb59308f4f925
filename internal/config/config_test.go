package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SESSION_TTL_MINUTES", "ALLOWED_ORIGINS", "MAP_CONFIG", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Map.DefaultStyleURL() != "mapbox://styles/mapbox/outdoors-v12" {
		t.Errorf("default style = %s", cfg.Map.DefaultStyleURL())
	}
	if err := cfg.Map.Validate(); err != nil {
		t.Errorf("default catalog should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("SESSION_CAPACITY", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAP_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.SessionCapacity != 1000 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.SessionCapacity)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadMapCatalogOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yml")
	yml := `
defaultBasemap: dark-v11
viewport:
  longitude: -35.2
  latitude: -5.8
  zoom: 6
terrain:
  exaggeration: 1.5
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadMapCatalog(path)
	if err != nil {
		t.Fatalf("LoadMapCatalog failed: %v", err)
	}
	if catalog.DefaultStyleURL() != "mapbox://styles/mapbox/dark-v11" {
		t.Errorf("default style = %s", catalog.DefaultStyleURL())
	}
	if catalog.Camera().Center[0] != -35.2 || catalog.Camera().Zoom != 6 {
		t.Errorf("camera = %+v", catalog.Camera())
	}
	// Fields absent from the file keep their defaults
	if catalog.Viewport.Pitch != 45 {
		t.Errorf("pitch = %v, want default 45", catalog.Viewport.Pitch)
	}
	opts := catalog.DisplayOptions()
	if opts.Exaggeration != 1.5 || opts.DEMTileSize != 512 {
		t.Errorf("display options = %+v", opts)
	}
	if len(catalog.Basemaps) != 3 {
		t.Errorf("basemaps = %v", catalog.Basemaps)
	}
}

func TestLoadMapCatalogRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"latitude out of range": "viewport:\n  latitude: 120\n",
		"unknown default":       "defaultBasemap: streets-v99\n",
		"basemap without url":   "basemaps:\n  - name: plain\ndefaultBasemap: plain\n",
		"broken yaml":           "viewport: [\n",
	}

	for name, yml := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "map.yml")
			os.WriteFile(path, []byte(yml), 0644)
			if _, err := LoadMapCatalog(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFailsOnMissingMapConfig(t *testing.T) {
	t.Setenv("MAP_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	if _, err := Load(); err == nil {
		t.Error("Load should fail when MAP_CONFIG points nowhere")
	}
}

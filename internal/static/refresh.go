package static

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/journey"
)

// BundleDir is the directory under WEB_PUBLIC_DIR holding the bundle
const BundleDir = "journey_data"

// RefreshIfStale regenerates the static bundle when its manifest is missing,
// corrupt, older than the refresh threshold, written by another generator
// version, or describes different stops than j. It reports whether the
// bundle was regenerated.
func RefreshIfStale(cfg *config.Config, j *journey.Journey) (bool, error) {
	if cfg.WebPublicDir == "" {
		log.Println("WEB_PUBLIC_DIR not configured, skipping static refresh")
		return false, nil
	}

	outputDir := filepath.Join(cfg.WebPublicDir, BundleDir)
	manifestPath := filepath.Join(outputDir, ManifestFile)

	switch {
	case isStaleOrMissing(manifestPath, cfg.StaticRefreshDays):
		log.Println("Journey static data is stale or missing, refreshing...")
	case getStoredGeneratorVersion(manifestPath) != GeneratorVersion:
		log.Println("Journey static data was written by another generator version, refreshing...")
	case pointsChanged(manifestPath, j):
		log.Println("Journey stops changed, refreshing static data...")
	default:
		log.Println("Static data is fresh, skipping refresh")
		return false, nil
	}

	if _, err := Generate(j, cfg.Map, outputDir); err != nil {
		return false, err
	}
	log.Println("Journey static data refreshed successfully")
	return true, nil
}

func readManifest(manifestPath string) (*Manifest, bool) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, false
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, false
	}
	return &manifest, true
}

func isStaleOrMissing(manifestPath string, maxAgeDays int) bool {
	manifest, ok := readManifest(manifestPath)
	if !ok {
		// File doesn't exist, can't be read or isn't JSON
		return true
	}

	stamp := manifest.UpdatedAt
	if stamp == "" {
		stamp = manifest.GeneratedAt
	}
	updatedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return true
	}

	age := time.Since(updatedAt)
	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour

	return age > maxAge
}

func getStoredGeneratorVersion(manifestPath string) string {
	manifest, ok := readManifest(manifestPath)
	if !ok {
		return ""
	}
	return manifest.GeneratorVersion
}

func pointsChanged(manifestPath string, j *journey.Journey) bool {
	manifest, ok := readManifest(manifestPath)
	if !ok {
		return true
	}
	checksum, err := PointsChecksum(j)
	if err != nil {
		log.Printf("Warning: failed to checksum journey stops: %v", err)
		return true
	}
	return manifest.Points.Checksum != checksum
}

package journey

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// maxBodyBytes caps the size of a fetched journey file
const maxBodyBytes = 32 << 20

// Parse decodes a GeoJSON FeatureCollection of stops
func Parse(data []byte) (*Journey, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse journey GeoJSON: %w", err)
	}
	return NewJourney(fc)
}

// LoadFile reads a journey from a local GeoJSON file
func LoadFile(path string) (*Journey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journey file: %w", err)
	}
	return Parse(data)
}

// Fetch downloads a journey from an HTTP(S) URL
func Fetch(ctx context.Context, client *http.Client, url string) (*Journey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journey: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read journey response: %w", err)
	}
	return Parse(data)
}

// Load reads the journey from source, which is either an http(s) URL or a file path
func Load(ctx context.Context, client *http.Client, source string) (*Journey, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return Fetch(ctx, client, source)
	}
	return LoadFile(source)
}

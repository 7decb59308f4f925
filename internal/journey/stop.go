package journey

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Transport is the mode of transport used to reach a stop
type Transport string

const (
	TransportBicycle Transport = "bicycle"
	TransportBoat    Transport = "boat"
	TransportUnknown Transport = ""
)

// TransportProperty is the stop property holding the arrival transport tag
const TransportProperty = "transport_to_here"

// Stop is one geolocated point of the journey, in journey order
type Stop struct {
	Coordinates     orb.Point          // [lng, lat]
	TransportToHere Transport          // Meaningless for the first stop
	Properties      geojson.Properties // Display metadata, passed through untouched
}

// Journey holds the raw stop collection alongside its parsed stops.
// The points source is backed directly by Collection.
type Journey struct {
	Collection *geojson.FeatureCollection
	Stops      []Stop
}

// NewJourney parses the stops of a feature collection.
// Every feature must carry a Point geometry.
func NewJourney(fc *geojson.FeatureCollection) (*Journey, error) {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}

	stops := make([]Stop, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return nil, fmt.Errorf("feature %d: missing geometry", i)
		}
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: geometry is %s, want Point", i, f.Geometry.GeoJSONType())
		}
		stops = append(stops, Stop{
			Coordinates:     point,
			TransportToHere: transportOf(f.Properties),
			Properties:      f.Properties,
		})
	}

	return &Journey{Collection: fc, Stops: stops}, nil
}

// transportOf reads the raw transport tag; anything that is not a string is unknown
func transportOf(props geojson.Properties) Transport {
	if props == nil {
		return TransportUnknown
	}
	if s, ok := props[TransportProperty].(string); ok {
		return Transport(s)
	}
	return TransportUnknown
}

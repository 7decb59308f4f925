package journey

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// RouteSegment is the line between two consecutive stops
type RouteSegment struct {
	From      orb.Point
	To        orb.Point
	Transport Transport // Copied from the destination stop
}

// LengthKm returns the great-circle length of the segment in kilometres
func (s RouteSegment) LengthKm() float64 {
	return geo.DistanceHaversine(s.From, s.To) / 1000
}

// DeriveSegments connects each pair of consecutive stops.
// Segment i runs from stops[i] to stops[i+1] and carries the transport
// used to reach stops[i+1]. Fewer than two stops yields no segments.
func DeriveSegments(stops []Stop) []RouteSegment {
	if len(stops) < 2 {
		return []RouteSegment{}
	}

	segments := make([]RouteSegment, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		segments = append(segments, RouteSegment{
			From:      stops[i-1].Coordinates,
			To:        stops[i].Coordinates,
			Transport: stops[i].TransportToHere,
		})
	}
	return segments
}

// SegmentCollection converts segments into a GeoJSON FeatureCollection of
// LineStrings, one per segment, in segment order
func SegmentCollection(segments []RouteSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range segments {
		f := geojson.NewFeature(orb.LineString{s.From, s.To})
		if s.Transport == TransportUnknown {
			f.Properties["transport"] = nil
		} else {
			f.Properties["transport"] = string(s.Transport)
		}
		f.Properties["length_km"] = roundKm(s.LengthKm())
		fc.Append(f)
	}
	return fc
}

// TransportTotal is the distance covered with one transport tag
type TransportTotal struct {
	Transport Transport
	Segments  int
	Km        float64
}

// Summary aggregates segment distances for display
type Summary struct {
	Segments int
	TotalKm  float64
	ByMode   []TransportTotal // Sorted by descending distance
}

// Summarize totals segment lengths overall and per transport tag
func Summarize(segments []RouteSegment) Summary {
	totals := make(map[Transport]*TransportTotal)
	var sum Summary
	for _, s := range segments {
		km := s.LengthKm()
		sum.Segments++
		sum.TotalKm += km

		t, ok := totals[s.Transport]
		if !ok {
			t = &TransportTotal{Transport: s.Transport}
			totals[s.Transport] = t
		}
		t.Segments++
		t.Km += km
	}

	for _, t := range totals {
		sum.ByMode = append(sum.ByMode, *t)
	}
	sort.Slice(sum.ByMode, func(i, j int) bool {
		if sum.ByMode[i].Km == sum.ByMode[j].Km {
			return sum.ByMode[i].Transport < sum.ByMode[j].Transport
		}
		return sum.ByMode[i].Km > sum.ByMode[j].Km
	})
	return sum
}

// Bounds returns the bounding box of all stops
func (j *Journey) Bounds() orb.Bound {
	mp := make(orb.MultiPoint, 0, len(j.Stops))
	for _, s := range j.Stops {
		mp = append(mp, s.Coordinates)
	}
	return mp.Bound()
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

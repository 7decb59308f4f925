package display

import "github.com/ludobegins/por-ai/internal/journey"

// transportColors is ordered so the generated match expression is stable
var transportColors = []struct {
	Transport journey.Transport
	Color     string
}{
	{journey.TransportBicycle, "#ff7e5f"},
	{journey.TransportBoat, "#00a8cc"},
}

// DefaultLineColor is used for any transport not listed in transportColors.
// It equals the bicycle colour, so unknown legs look like cycling legs.
const DefaultLineColor = "#ff7e5f"

var dashedPattern = []float64{2, 2}

// SegmentStyle returns the line colour and dash pattern for a transport tag.
// Only boat segments are dashed; an empty pattern means a solid line.
func SegmentStyle(t journey.Transport) (string, []float64) {
	color := DefaultLineColor
	for _, tc := range transportColors {
		if tc.Transport == t {
			color = tc.Color
			break
		}
	}

	if t == journey.TransportBoat {
		return color, append([]float64(nil), dashedPattern...)
	}
	return color, []float64{}
}

// LineColorExpression builds the data-driven line-color expression
func LineColorExpression() []interface{} {
	expr := []interface{}{"match", []interface{}{"get", "transport"}}
	for _, tc := range transportColors {
		expr = append(expr, string(tc.Transport), tc.Color)
	}
	return append(expr, DefaultLineColor)
}

// LineDashExpression builds the data-driven line-dasharray expression
func LineDashExpression() []interface{} {
	return []interface{}{
		"case",
		[]interface{}{"==", []interface{}{"get", "transport"}, string(journey.TransportBoat)},
		[]interface{}{"literal", append([]float64(nil), dashedPattern...)},
		[]interface{}{"literal", []float64{}},
	}
}

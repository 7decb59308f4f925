package popup

import (
	"bytes"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/ludobegins/por-ai/internal/locale"
)

// DistanceProperty holds the distance travelled to reach a stop, in kilometres
const DistanceProperty = "distance_km"

// Content is the localized text shown when hovering a stop
type Content struct {
	Title         string `json:"title"`
	ArrivalLabel  string `json:"arrivalLabel"`
	ArrivalDate   string `json:"arrivalDate"`
	Notes         string `json:"notes"`
	DistanceLabel string `json:"distanceLabel,omitempty"`
	Distance      string `json:"distance,omitempty"` // Empty when no positive distance is known
}

// Build resolves the popup fields of a stop for the given locale
func Build(props map[string]interface{}, lc *locale.Context) Content {
	c := Content{
		Title:        lc.Field(props, "place_name"),
		ArrivalLabel: lc.T("arrival-label"),
		ArrivalDate:  lc.Field(props, "arrival_date"),
		Notes:        lc.Field(props, "notes"),
	}

	if km, ok := distanceOf(props); ok {
		c.DistanceLabel = lc.T("distance-label")
		c.Distance = lc.FormatDistance(km)
	}
	return c
}

// distanceOf accepts numbers and numeric strings; only positive values count
func distanceOf(props map[string]interface{}) (float64, bool) {
	var km float64
	switch v := props[DistanceProperty].(type) {
	case float64:
		km = v
	case int:
		km = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		km = f
	default:
		return 0, false
	}
	if !isFinite(km) || km <= 0 {
		return 0, false
	}
	return km, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var popupTemplate = template.Must(template.New("popup").Parse(
	`<h3>{{.Title}}</h3>
<strong class="popup-date">{{.ArrivalLabel}}: {{.ArrivalDate}}</strong>
{{- if .Distance}}
<span class="popup-distance">{{.DistanceLabel}}: {{.Distance}}</span>
{{- end}}
<p>{{.Notes}}</p>
`))

// Render produces the popup HTML; all fields are escaped
func Render(c Content) (string, error) {
	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapLongitude moves a feature's longitude by whole turns so the popup
// opens over the copy of the feature under the cursor when the world repeats
func WrapLongitude(feature, cursor orb.Point) orb.Point {
	p := feature
	if !isFinite(p[0]) || !isFinite(cursor.Lon()) {
		return p
	}
	p[0] += 360 * math.Round((cursor.Lon()-p[0])/360)
	return p
}

package display

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ludobegins/por-ai/internal/journey"
)

func TestSegmentStyle(t *testing.T) {
	tests := []struct {
		transport journey.Transport
		color     string
		dashed    bool
	}{
		{journey.TransportBoat, "#00a8cc", true},
		{journey.TransportBicycle, "#ff7e5f", false},
		{journey.TransportUnknown, DefaultLineColor, false},
		{"train", DefaultLineColor, false},
		{"Boat", DefaultLineColor, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.transport), func(t *testing.T) {
			color, dash := SegmentStyle(tc.transport)
			if color != tc.color {
				t.Errorf("color = %s, expected %s", color, tc.color)
			}
			if dashed := len(dash) > 0; dashed != tc.dashed {
				t.Errorf("dash = %v, expected dashed=%v", dash, tc.dashed)
			}
			if tc.dashed && !reflect.DeepEqual(dash, []float64{2, 2}) {
				t.Errorf("dash = %v, expected [2 2]", dash)
			}
		})
	}
}

func TestDefaultColorMatchesBicycle(t *testing.T) {
	bicycle, _ := SegmentStyle(journey.TransportBicycle)
	unknown, _ := SegmentStyle("")
	if bicycle != unknown {
		t.Errorf("unknown legs should look like bicycle legs: %s vs %s", unknown, bicycle)
	}
}

// evaluate interprets the small subset of style expressions the line layer uses
func evaluate(expr interface{}, props map[string]interface{}) (interface{}, error) {
	list, ok := expr.([]interface{})
	if !ok {
		return expr, nil
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	switch list[0] {
	case "get":
		return props[list[1].(string)], nil
	case "literal":
		return list[1], nil
	case "==":
		a, err := evaluate(list[1], props)
		if err != nil {
			return nil, err
		}
		b, err := evaluate(list[2], props)
		if err != nil {
			return nil, err
		}
		return a == b, nil
	case "match":
		input, err := evaluate(list[1], props)
		if err != nil {
			return nil, err
		}
		for i := 2; i+1 < len(list); i += 2 {
			if input == list[i] {
				return list[i+1], nil
			}
		}
		return list[len(list)-1], nil
	case "case":
		for i := 1; i+1 < len(list); i += 2 {
			cond, err := evaluate(list[i], props)
			if err != nil {
				return nil, err
			}
			if cond == true {
				return evaluate(list[i+1], props)
			}
		}
		return evaluate(list[len(list)-1], props)
	}
	return nil, fmt.Errorf("unsupported operator %v", list[0])
}

func TestExpressionsAgreeWithSegmentStyle(t *testing.T) {
	for _, transport := range []interface{}{"bicycle", "boat", "car", nil} {
		props := map[string]interface{}{"transport": transport}
		var tag journey.Transport
		if s, ok := transport.(string); ok {
			tag = journey.Transport(s)
		}
		wantColor, wantDash := SegmentStyle(tag)

		color, err := evaluate(LineColorExpression(), props)
		if err != nil {
			t.Fatalf("line-color: %v", err)
		}
		if color != wantColor {
			t.Errorf("transport %v: expression color %v, SegmentStyle %v", transport, color, wantColor)
		}

		dash, err := evaluate(LineDashExpression(), props)
		if err != nil {
			t.Fatalf("line-dasharray: %v", err)
		}
		if !reflect.DeepEqual(dash, wantDash) {
			t.Errorf("transport %v: expression dash %v, SegmentStyle %v", transport, dash, wantDash)
		}
	}
}

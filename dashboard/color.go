package dashboard

import "fmt"

// neutralHue is returned when every point shares the same price and the
// low/high scale collapses to a single value.
const neutralHue = 60.0

const (
	markerSaturation = 80
	markerLightness  = 45
)

// MarkerHue maps a price onto the 120°(green)→0°(red) scale between min
// and max. Prices outside the range clamp to the scale ends.
func MarkerHue(price, min, max float64) float64 {
	if min == max {
		return neutralHue
	}
	ratio := (price - min) / (max - min)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return (1 - ratio) * 120
}

// MarkerColor returns the CSS fill color for one map point.
func MarkerColor(price, min, max float64) string {
	return fmt.Sprintf("hsl(%.0f, %d%%, %d%%)", MarkerHue(price, min, max),
		markerSaturation, markerLightness)
}

// LegendStops is the fixed cheap→expensive gradient shown beside the map
// whenever a result is loaded.
var LegendStops = []string{
	fmt.Sprintf("hsl(120, %d%%, %d%%)", markerSaturation, markerLightness),
	fmt.Sprintf("hsl(60, %d%%, %d%%)", markerSaturation, markerLightness),
	fmt.Sprintf("hsl(0, %d%%, %d%%)", markerSaturation, markerLightness),
}

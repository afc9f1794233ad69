package render

import (
	"encoding/json"
	"math"

	"github.com/ziadkadry99/partscope/internal/catalog"
)

// minLogCurrent is the floor of the logarithmic current axis.
const minLogCurrent = 1e-12

// ChartData is what the page script needs to draw a characteristic.
type ChartData struct {
	ComponentID string          `json:"component_id"`
	Points      []catalog.Point `json:"points"`
	YMin        float64         `json:"y_min"`
	YMax        float64         `json:"y_max"`
}

// YBounds returns the log-scale current axis range for points: one decade
// below the smallest positive current (never below 1e-12) up to one decade
// above the largest current. The lower bound never exceeds the upper.
func YBounds(points []catalog.Point) (lower, upper float64) {
	minPositive := math.Inf(1)
	maxCurrent := math.Inf(-1)
	for _, p := range points {
		if p.Current > 0 && p.Current < minPositive {
			minPositive = p.Current
		}
		if p.Current > maxCurrent {
			maxCurrent = p.Current
		}
	}

	lower = minLogCurrent
	if !math.IsInf(minPositive, 1) {
		lower = math.Max(minLogCurrent, minPositive*0.1)
	}

	upper = maxCurrent * 10
	if math.IsInf(maxCurrent, -1) || upper < lower {
		upper = lower * 10
	}
	return lower, upper
}

// NewChartData builds the chart payload for a full, uncapped point list.
func NewChartData(componentID string, points []catalog.Point) ChartData {
	if points == nil {
		points = []catalog.Point{}
	}
	lower, upper := YBounds(points)
	return ChartData{ComponentID: componentID, Points: points, YMin: lower, YMax: upper}
}

// JSON encodes the chart payload for a data attribute.
func (c ChartData) JSON() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

package paths

import (
	"fmt"
	"time"
)

// Location is a WGS84 coordinate
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is a timestamped location along a path
type Waypoint struct {
	Time     time.Time
	Location Location
}

// TripMeta identifies the trip a path belongs to
type TripMeta struct {
	TripID   string `json:"trip_id"`
	RouteID  string `json:"route_id"`
	PONumber string `json:"po_number"`
}

// PathTrace is the ordered waypoint sequence of one trip
type PathTrace struct {
	Trip   TripMeta
	Points []Waypoint
}

// Start returns the time of the first waypoint
func (p PathTrace) Start() time.Time { return p.Points[0].Time }

// End returns the time of the last waypoint
func (p PathTrace) End() time.Time { return p.Points[len(p.Points)-1].Time }

// ActivePosition is a trip's resolved location at a query time
type ActivePosition struct {
	Trip     TripMeta
	Location Location
}

// Interpolation selects how two bracketing waypoints are blended
type Interpolation int

const (
	// InterpolationInverted weights the earlier waypoint by the elapsed proportion
	InterpolationInverted Interpolation = iota
	// InterpolationLinear is conventional linear interpolation
	InterpolationLinear
)

// ParseInterpolation maps a config value to an Interpolation.
// The empty string selects the default.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "inverted":
		return InterpolationInverted, nil
	case "linear":
		return InterpolationLinear, nil
	}
	return InterpolationInverted, fmt.Errorf("unknown interpolation %q", s)
}

func (m Interpolation) String() string {
	if m == InterpolationLinear {
		return "linear"
	}
	return "inverted"
}

package paths

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformedPath is returned when a trace has fewer than two waypoints
	// or a waypoint earlier than its predecessor.
	ErrMalformedPath = errors.New("malformed path")
	// ErrOutOfRange is returned when a location is requested outside a trace's active window.
	ErrOutOfRange = errors.New("time outside active window")
)

// Index is an immutable collection of path traces
type Index struct {
	traces []PathTrace
	mode   Interpolation
}

// NewIndex validates and takes ownership of traces. Insertion order is kept.
func NewIndex(traces []PathTrace, mode Interpolation) (*Index, error) {
	owned := make([]PathTrace, len(traces))
	for i, tr := range traces {
		if err := validate(tr); err != nil {
			return nil, err
		}
		pts := make([]Waypoint, len(tr.Points))
		copy(pts, tr.Points)
		owned[i] = PathTrace{Trip: tr.Trip, Points: pts}
	}
	return &Index{traces: owned, mode: mode}, nil
}

func validate(tr PathTrace) error {
	if len(tr.Points) < 2 {
		return fmt.Errorf("trip %s: %d waypoints, need at least 2: %w", tr.Trip.TripID, len(tr.Points), ErrMalformedPath)
	}
	for i := 1; i < len(tr.Points); i++ {
		if tr.Points[i].Time.Before(tr.Points[i-1].Time) {
			return fmt.Errorf("trip %s: waypoint %d at %s precedes waypoint %d at %s: %w",
				tr.Trip.TripID, i, tr.Points[i].Time, i-1, tr.Points[i-1].Time, ErrMalformedPath)
		}
	}
	return nil
}

// Len returns the number of traces
func (x *Index) Len() int { return len(x.traces) }

// Mode returns the interpolation in use
func (x *Index) Mode() Interpolation { return x.mode }

// Traces returns the traces in insertion order. The slice must not be modified.
func (x *Index) Traces() []PathTrace { return x.traces }

// Span returns the earliest start and latest end across all traces.
// ok is false for an empty index.
func (x *Index) Span() (start, end time.Time, ok bool) {
	for i, tr := range x.traces {
		if i == 0 || tr.Start().Before(start) {
			start = tr.Start()
		}
		if i == 0 || tr.End().After(end) {
			end = tr.End()
		}
	}
	return start, end, len(x.traces) > 0
}

// IsActive reports whether t lies strictly between the first and last waypoint
func IsActive(tr PathTrace, t time.Time) bool {
	return tr.Start().Before(t) && tr.End().After(t)
}

// ActiveTraces returns the traces active at t in insertion order
func (x *Index) ActiveTraces(t time.Time) []PathTrace {
	var out []PathTrace
	for _, tr := range x.traces {
		if IsActive(tr, t) {
			out = append(out, tr)
		}
	}
	return out
}

// PositionsAt resolves the location of every trace active at t
func (x *Index) PositionsAt(t time.Time) ([]ActivePosition, error) {
	active := x.ActiveTraces(t)
	out := make([]ActivePosition, 0, len(active))
	for _, tr := range active {
		loc, err := x.LocationAt(tr, t)
		if err != nil {
			return nil, err
		}
		out = append(out, ActivePosition{Trip: tr.Trip, Location: loc})
	}
	return out, nil
}

// LocationAt interpolates tr's location at t using the index's interpolation
func (x *Index) LocationAt(tr PathTrace, t time.Time) (Location, error) {
	return LocationAt(tr, t, x.mode)
}

// LocationAt interpolates tr's location at t. t must be inside the trace's
// active window, otherwise ErrOutOfRange is returned.
func LocationAt(tr PathTrace, t time.Time, mode Interpolation) (Location, error) {
	if len(tr.Points) < 2 {
		return Location{}, fmt.Errorf("trip %s: %w", tr.Trip.TripID, ErrMalformedPath)
	}
	if !IsActive(tr, t) {
		return Location{}, fmt.Errorf("trip %s at %s (window %s..%s): %w",
			tr.Trip.TripID, t, tr.Start(), tr.End(), ErrOutOfRange)
	}
	before, after := bracket(tr.Points, t)
	b, a := tr.Points[before], tr.Points[after]
	proportion := float64(t.Sub(b.Time)) / float64(a.Time.Sub(b.Time))
	return interpolate(b.Location, a.Location, proportion, mode), nil
}

// bracket narrows [0, n-1] to adjacent indices with
// points[before].Time < t <= points[after].Time.
func bracket(points []Waypoint, t time.Time) (int, int) {
	before, after := 0, len(points)-1
	for after-before > 1 {
		mid := before + (after-before)/2
		if points[mid].Time.Before(t) {
			before = mid
		} else {
			after = mid
		}
	}
	return before, after
}

func interpolate(before, after Location, p float64, mode Interpolation) Location {
	if mode == InterpolationLinear {
		return Location{
			Lat: before.Lat + p*(after.Lat-before.Lat),
			Lng: before.Lng + p*(after.Lng-before.Lng),
		}
	}
	return Location{
		Lat: before.Lat*p + after.Lat*(1-p),
		Lng: before.Lng*p + after.Lng*(1-p),
	}
}

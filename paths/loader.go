package paths

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

// rawTrace mirrors one entry of the generated paths file
type rawTrace struct {
	Trip struct {
		TripID   any `json:"trip_id"`
		RouteID  any `json:"route_id"`
		PONumber any `json:"po_number"`
	} `json:"trip"`
	Points []struct {
		Time     string   `json:"time"`
		Location Location `json:"location"`
	} `json:"points"`
}

// LoadFile reads a generated paths file from disk
func LoadFile(path string) ([]PathTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	traces, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return traces, nil
}

// Decode parses the generated paths JSON array. Waypoint times use the
// "YYYYMMDD HH:mm:ss" layout in UTC; ids may be numbers or strings.
func Decode(r io.Reader) ([]PathTrace, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []rawTrace
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding paths: %w", err)
	}
	out := make([]PathTrace, 0, len(raw))
	for i, rt := range raw {
		trip := TripMeta{
			TripID:   idString(rt.Trip.TripID),
			RouteID:  idString(rt.Trip.RouteID),
			PONumber: idString(rt.Trip.PONumber),
		}
		if trip.TripID == "" {
			return nil, fmt.Errorf("path %d: missing trip_id", i)
		}
		pts := make([]Waypoint, 0, len(rt.Points))
		for j, p := range rt.Points {
			ts, err := utils.ParsePathTime(p.Time)
			if err != nil {
				return nil, fmt.Errorf("trip %s point %d: %w", trip.TripID, j, err)
			}
			pts = append(pts, Waypoint{Time: ts, Location: p.Location})
		}
		out = append(out, PathTrace{Trip: trip, Points: pts})
	}
	return out, nil
}

// idString renders a JSON id given as a number or a string. Anything else is "".
func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return t.String()
	}
	return ""
}

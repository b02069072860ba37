package sink

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrStaleSnapshot is returned when a snapshot is not newer than the one held
var ErrStaleSnapshot = errors.New("stale snapshot")

// KeyPrefix prefixes the trip id in snapshot keys
const KeyPrefix = "Trip_"

// TruckLocation is the published record of one active truck
type TruckLocation struct {
	RouteID    string  `json:"route_id"`
	RouteName  string  `json:"route_name"`
	RouteColor string  `json:"route_color"`
	PONumber   string  `json:"po_number"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// Snapshot is the full set of truck locations at one simulated time
type Snapshot struct {
	Seq    uint64
	Time   time.Time
	Trucks map[string]TruckLocation
}

// Publisher receives snapshots
type Publisher interface {
	Publish(ctx context.Context, s Snapshot) error
}

// TripKey returns the snapshot key for a trip id
func TripKey(tripID string) string {
	return KeyPrefix + tripID
}

// TripIDFromKey strips the key prefix. ok is false for foreign keys.
func TripIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, KeyPrefix), true
}

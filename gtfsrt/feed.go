package gtfsrt

import (
	"sort"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/truck-simulator/sink"
)

// Version is the GTFS-Realtime version written to feed headers
const Version = "2.0"

// BuildVehiclePositions converts a snapshot into a full-dataset feed.
// Entities are ordered by snapshot key.
func BuildVehiclePositions(s sink.Snapshot) *gtfsrtpb.FeedMessage {
	ts := uint64(0)
	if !s.Time.IsZero() && s.Time.Unix() > 0 {
		ts = uint64(s.Time.Unix())
	}

	keys := make([]string, 0, len(s.Trucks))
	for k := range s.Trucks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entities := make([]*gtfsrtpb.FeedEntity, 0, len(keys))
	for _, key := range keys {
		loc := s.Trucks[key]
		tripID, ok := sink.TripIDFromKey(key)
		if !ok {
			tripID = key
		}
		entities = append(entities, &gtfsrtpb.FeedEntity{
			Id: proto.String(key),
			Vehicle: &gtfsrtpb.VehiclePosition{
				Trip: &gtfsrtpb.TripDescriptor{
					TripId:  proto.String(tripID),
					RouteId: proto.String(loc.RouteID),
				},
				Vehicle: &gtfsrtpb.VehicleDescriptor{
					Id:    proto.String(key),
					Label: proto.String(loc.PONumber),
				},
				Position: &gtfsrtpb.Position{
					Latitude:  proto.Float32(float32(loc.Lat)),
					Longitude: proto.Float32(float32(loc.Lng)),
				},
				Timestamp: proto.Uint64(ts),
			},
		})
	}

	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(Version),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
		Entity: entities,
	}
}

// Marshal encodes the feed for a snapshot as protobuf
func Marshal(s sink.Snapshot) ([]byte, error) {
	return proto.Marshal(BuildVehiclePositions(s))
}

// MarshalJSON encodes the feed for a snapshot with protojson
func MarshalJSON(s sink.Snapshot) ([]byte, error) {
	return protojson.MarshalOptions{Indent: "  "}.Marshal(BuildVehiclePositions(s))
}

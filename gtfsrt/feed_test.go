package gtfsrt

import (
	"encoding/json"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/truck-simulator/sink"
)

var simTime = time.Date(2018, 7, 30, 8, 12, 0, 0, time.UTC)

func testSnapshot() sink.Snapshot {
	return sink.Snapshot{Seq: 7, Time: simTime, Trucks: map[string]sink.TruckLocation{
		"Trip_701": {RouteID: "11", RouteName: "Harbour Run", PONumber: "PO-2210", Lat: 42.65, Lng: 23.39},
		"Trip_700": {RouteID: "10", RouteName: "Northern Loop", PONumber: "PO-1042", Lat: 42.7, Lng: 23.34},
	}}
}

func TestMarshal_VehiclePositions(t *testing.T) {
	data, err := Marshal(testSnapshot())
	require.NoError(t, err)

	var feed gtfsrtpb.FeedMessage
	require.NoError(t, proto.Unmarshal(data, &feed))

	assert.Equal(t, Version, feed.GetHeader().GetGtfsRealtimeVersion())
	assert.Equal(t, gtfsrtpb.FeedHeader_FULL_DATASET, feed.GetHeader().GetIncrementality())
	assert.Equal(t, uint64(simTime.Unix()), feed.GetHeader().GetTimestamp())

	require.Len(t, feed.GetEntity(), 2)
	first := feed.GetEntity()[0]
	assert.Equal(t, "Trip_700", first.GetId())

	vp := first.GetVehicle()
	assert.Equal(t, "700", vp.GetTrip().GetTripId())
	assert.Equal(t, "10", vp.GetTrip().GetRouteId())
	assert.Equal(t, "Trip_700", vp.GetVehicle().GetId())
	assert.Equal(t, "PO-1042", vp.GetVehicle().GetLabel())
	assert.InDelta(t, 42.7, vp.GetPosition().GetLatitude(), 1e-5)
	assert.InDelta(t, 23.34, vp.GetPosition().GetLongitude(), 1e-5)
	assert.Equal(t, uint64(simTime.Unix()), vp.GetTimestamp())

	assert.Equal(t, "Trip_701", feed.GetEntity()[1].GetId())
}

func TestBuildVehiclePositions_EmptySnapshot(t *testing.T) {
	feed := BuildVehiclePositions(sink.Snapshot{})
	assert.Empty(t, feed.GetEntity())
	assert.Equal(t, uint64(0), feed.GetHeader().GetTimestamp())
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(testSnapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	entities, ok := decoded["entity"].([]any)
	require.True(t, ok)
	assert.Len(t, entities, 2)
	header := decoded["header"].(map[string]any)
	assert.Equal(t, "FULL_DATASET", header["incrementality"])
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/truck-simulator/config"
	"github.com/theoremus-urban-solutions/truck-simulator/converter"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/siri"
	"github.com/theoremus-urban-solutions/truck-simulator/simulator"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
)

var simTime = time.Date(2018, 7, 30, 8, 12, 0, 0, time.UTC)

func testIndex() *gtfs.GTFSIndex {
	g := gtfs.NewGTFSIndex()
	g.Routes["10"] = gtfs.Route{RouteID: "10", RouteType: 3, RouteName: "Northern Loop", RouteColor: "FF0000"}
	g.Trips["700"] = gtfs.Trip{TripID: "700", RouteID: "10", ServiceID: "4", PONumber: "PO-1042"}
	g.TripOrder = []string{"700"}
	g.Stops["20"] = gtfs.Stop{StopID: "20", StopName: "Depot", Lat: 42.69, Lon: 23.32}
	g.StopOrder = []string{"20"}
	g.StopTimes["700"] = []gtfs.StopTime{{TripID: "700", DepartureTime: "08:00:00", StopID: "20", StopSequence: 1}}
	g.CalendarDates = []gtfs.CalendarDate{{ServiceID: "4", Date: 20180730, ExceptionType: 1}}
	return g
}

type fakeStatus struct{}

func (fakeStatus) State() simulator.State { return simulator.StateIdle }
func (fakeStatus) LastPublished() (uint64, time.Time) { return 0, time.Time{} }

func newTestServer(t *testing.T) (*Server, *sink.Memory) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	mem := sink.NewMemory()
	idx := testIndex()
	s := NewServer(config.ServerConfig{Port: 0}, Deps{
		Snapshots: mem,
		Metadata:  idx,
		Converter: converter.NewConverter(idx, converter.Options{Codespace: "TRUCKS"}),
		Status:    fakeStatus{},
	}, logger)
	return s, mem
}

func publish(t *testing.T, mem *sink.Memory, seq uint64) {
	t.Helper()
	require.NoError(t, mem.Publish(context.Background(), sink.Snapshot{Seq: seq, Time: simTime, Trucks: map[string]sink.TruckLocation{
		"Trip_700": {RouteID: "10", RouteName: "Northern Loop", RouteColor: "FF0000", PONumber: "PO-1042", Lat: 42.7, Lng: 23.34},
	}}))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, mem := newTestServer(t)

	rec := get(t, s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","state":"idle","last_tick":0,"active_trucks":0}`, rec.Body.String())

	publish(t, mem, 4)
	rec = get(t, s, "/api/health")
	assert.JSONEq(t, `{"status":"ok","state":"idle","last_tick":4,"simulated_time":"2018-07-30T08:12:00Z","active_trucks":1}`, rec.Body.String())
}

func TestTruckLocations(t *testing.T) {
	s, mem := newTestServer(t)

	rec := get(t, s, "/api/truck-locations.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), errNoSnapshot)

	publish(t, mem, 1)
	rec = get(t, s, "/api/truck-locations.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "2018-07-30T08:12:00Z", rec.Header().Get("X-Simulated-Time"))
	assert.JSONEq(t, `{"Trip_700":{"route_id":"10","route_name":"Northern Loop","route_color":"FF0000","po_number":"PO-1042","lat":42.7,"lng":23.34}}`, rec.Body.String())
}

func TestVehiclePositions(t *testing.T) {
	s, mem := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/gtfsrt/vehicle-positions.pb").Code)

	publish(t, mem, 1)
	rec := get(t, s, "/api/gtfsrt/vehicle-positions.pb")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-protobuf", rec.Header().Get("Content-Type"))

	var feed gtfsrtpb.FeedMessage
	require.NoError(t, proto.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.GetEntity(), 1)
	assert.Equal(t, "700", feed.GetEntity()[0].GetVehicle().GetTrip().GetTripId())

	rec = get(t, s, "/api/gtfsrt/vehicle-positions.pb?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"entity"`)
}

func TestVehicleMonitoringJSON(t *testing.T) {
	s, mem := newTestServer(t)

	rec := get(t, s, "/api/siri/vehicle-monitoring.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ErrorCondition")

	publish(t, mem, 1)
	rec = get(t, s, "/api/siri/vehicle-monitoring.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var res siri.SiriResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	vm := res.Siri.ServiceDelivery.VehicleMonitoringDelivery
	require.Len(t, vm, 1)
	require.Len(t, vm[0].VehicleActivity, 1)
	assert.Equal(t, "TRUCKS:Line:10", vm[0].VehicleActivity[0].MonitoredVehicleJourney.LineRef)

	rec = get(t, s, "/api/siri/vehicle-monitoring.json?lineref=Line:99")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity)
}

func TestVehicleMonitoringXML(t *testing.T) {
	s, mem := newTestServer(t)

	rec := get(t, s, "/api/siri/vehicle-monitoring.xml")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<ErrorCondition>")

	publish(t, mem, 1)
	rec = get(t, s, "/api/siri/vehicle-monitoring.xml?VehicleRef=PO-1042")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<VehicleRef>TRUCKS:VehicleRef:PO-1042</VehicleRef>")
	assert.Contains(t, rec.Body.String(), "<VehicleMode>bus</VehicleMode>")
}

func TestVehicleMonitoring_CancelledRequestDoesNotPoisonCache(t *testing.T) {
	s, mem := newTestServer(t)
	publish(t, mem, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/siri/vehicle-monitoring.xml", nil).WithContext(ctx))
	assert.Contains(t, rec.Body.String(), "<VehicleMode>bus</VehicleMode>")

	rec = get(t, s, "/api/siri/vehicle-monitoring.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<VehicleMode>bus</VehicleMode>")
}

func TestResponseCache_ResetsOnNewSnapshot(t *testing.T) {
	s, mem := newTestServer(t)
	publish(t, mem, 1)

	get(t, s, "/api/siri/vehicle-monitoring.json")
	get(t, s, "/api/siri/vehicle-monitoring.json")
	get(t, s, "/api/siri/vehicle-monitoring.xml")
	assert.Equal(t, 2, s.cache.len())

	publish(t, mem, 2)
	get(t, s, "/api/siri/vehicle-monitoring.json")
	assert.Equal(t, 1, s.cache.len())
}

func TestRoute(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/routes/10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"route_id":"10","route_type":3,"route_name":"Northern Loop","route_color":"FF0000"}`, rec.Body.String())

	rec = get(t, s, "/api/routes/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}

func TestTripStops(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/trips/700/stops")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	var stops []gtfs.StopInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stops))
	require.Len(t, stops, 1)
	assert.Equal(t, "Depot", stops[0].StopName)
	assert.Equal(t, 20180730, stops[0].Date)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/trips/nope/stops").Code)
}

func TestStopsAndCalendarDates(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/stops.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"poNumbers":["PO-1042"]`))

	rec = get(t, s, "/api/calendar-dates.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"service_id":"4","date":20180730,"exception_type":1}]`, rec.Body.String())
}

func TestUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/nothing-here").Code)
	assert.Equal(t, ":0", s.Addr())
}

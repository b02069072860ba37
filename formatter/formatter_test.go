package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/truck-simulator/siri"
)

func testResponse() *siri.SiriResponse {
	activity := func(line, vehicle, name string) siri.VehicleActivityEntry {
		return siri.VehicleActivityEntry{
			RecordedAtTime: "2018-07-30T08:12:00Z",
			MonitoredVehicleJourney: siri.MonitoredVehicleJourney{
				LineRef:           line,
				PublishedLineName: name,
				Monitored:         true,
				DataSource:        "TRUCKS",
				VehicleLocation:   &siri.VehicleLocation{Latitude: 42.7, Longitude: 23.34},
				Delay:             "PT0S",
				VehicleRef:        vehicle,
				Extensions:        &siri.Extensions{PONumber: "PO-1042"},
			},
		}
	}
	return &siri.SiriResponse{Siri: siri.SiriServiceDelivery{ServiceDelivery: siri.ServiceDelivery{
		ResponseTimestamp: "2018-07-30T08:12:00Z",
		ProducerRef:       "TRUCKS",
		VehicleMonitoringDelivery: []siri.VehicleMonitoring{{
			ResponseTimestamp: "2018-07-30T08:12:00Z",
			VehicleActivity: []siri.VehicleActivityEntry{
				activity("TRUCKS:Line:10", "TRUCKS:VehicleRef:PO-1042", "Fish & Chips <Express>"),
				activity("TRUCKS:Line:11", "TRUCKS:VehicleRef:PO-2210", "Harbour Run"),
			},
		}},
	}}}
}

func TestBuildXML(t *testing.T) {
	out := string(NewResponseBuilder().BuildXML(testResponse()))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?><Siri xmlns="http://www.siri.org.uk/siri"`))
	assert.Contains(t, out, "<ProducerRef>TRUCKS</ProducerRef>")
	assert.Contains(t, out, "<LineRef>TRUCKS:Line:10</LineRef>")
	assert.Contains(t, out, "<PublishedLineName>Fish &amp; Chips &lt;Express&gt;</PublishedLineName>")
	assert.Contains(t, out, "<VehicleLocation><Longitude>23.340000</Longitude><Latitude>42.700000</Latitude></VehicleLocation>")
	assert.Contains(t, out, "<Monitored>true</Monitored>")
	assert.Contains(t, out, "<IsCompleteStopSequence>false</IsCompleteStopSequence>")
	assert.Contains(t, out, "<Extensions><PONumber>PO-1042</PONumber></Extensions>")
	assert.NotContains(t, out, "<ValidUntil>")
	assert.Equal(t, 2, strings.Count(out, "<VehicleActivity>"))
	assert.True(t, strings.HasSuffix(out, "</ServiceDelivery></Siri>"))
}

func TestBuildJSON(t *testing.T) {
	data, err := NewResponseBuilder().BuildJSON(testResponse())
	require.NoError(t, err)

	var decoded siri.SiriResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, testResponse(), &decoded)
}

func TestFilterResponse(t *testing.T) {
	res := testResponse()

	assert.Same(t, res, FilterResponse(res, "", ""))

	byLine := FilterResponse(res, "line:11", "")
	require.Len(t, byLine.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity, 1)
	assert.Equal(t, "Harbour Run", byLine.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity[0].MonitoredVehicleJourney.PublishedLineName)

	byVehicle := FilterResponse(res, "", "po-1042")
	assert.Len(t, byVehicle.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity, 1)

	none := FilterResponse(res, "Line:10", "PO-2210")
	assert.Empty(t, none.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity)

	// the input is untouched
	assert.Len(t, res.Siri.ServiceDelivery.VehicleMonitoringDelivery[0].VehicleActivity, 2)
}

package converter

import (
	"context"

	"github.com/theoremus-urban-solutions/truck-simulator/siri"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

func (c *Converter) buildMVJ(ctx context.Context, key string, s sink.Snapshot) siri.MonitoredVehicleJourney {
	codespace := c.opts.Codespace
	loc := s.Trucks[key]
	tripID, ok := sink.TripIDFromKey(key)
	if !ok {
		tripID = key
	}

	// VehicleRef format: {codespace}:VehicleRef:{po_number}
	vehicleID := loc.PONumber
	if vehicleID == "" {
		vehicleID = tripID
	}

	mvj := siri.MonitoredVehicleJourney{
		LineRef: codespace + ":Line:" + loc.RouteID,
		FramedVehicleJourneyRef: &siri.FramedVehicleJourneyRef{
			DataFrameRef:           utils.Iso8601DateOf(s.Time),
			DatedVehicleJourneyRef: codespace + ":ServiceJourney:" + tripID,
		},
		VehicleMode:       c.vehicleMode(ctx, loc.RouteID),
		PublishedLineName: loc.RouteName,
		Monitored:         true,
		DataSource:        codespace,
		VehicleLocation:   &siri.VehicleLocation{Latitude: loc.Lat, Longitude: loc.Lng},
		// planned paths carry no delay
		Delay:                  "PT0S",
		VehicleRef:             codespace + ":VehicleRef:" + vehicleID,
		IsCompleteStopSequence: false,
	}
	if loc.PONumber != "" || loc.RouteColor != "" {
		mvj.Extensions = &siri.Extensions{PONumber: loc.PONumber, RouteColor: loc.RouteColor}
	}
	return mvj
}

func (c *Converter) vehicleMode(ctx context.Context, routeID string) string {
	if c.routes == nil || routeID == "" {
		return ""
	}
	route, err := c.routes.GetTruckRouteByID(ctx, routeID)
	if err != nil {
		return ""
	}
	return mapGTFSRouteTypeToSIRIVehicleMode(route.RouteType)
}

// mapGTFSRouteTypeToSIRIVehicleMode maps basic GTFS route types; anything
// else is reported as a road vehicle.
func mapGTFSRouteTypeToSIRIVehicleMode(routeType int) string {
	switch routeType {
	case 0:
		return "tram"
	case 1:
		return "metro"
	case 2:
		return "rail"
	case 4:
		return "ferry"
	case 11:
		return "trolleybus"
	default:
		return "bus"
	}
}

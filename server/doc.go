// Package server exposes the latest truck snapshot and the route metadata
// over HTTP.
//
// Endpoints:
//
//	GET /api/health
//	GET /api/truck-locations.json
//	GET /api/gtfsrt/vehicle-positions.pb        (?format=json for protojson)
//	GET /api/siri/vehicle-monitoring.json       (?LineRef=&VehicleRef=)
//	GET /api/siri/vehicle-monitoring.xml
//	GET /api/routes/{route_id}
//	GET /api/trips/{trip_id}/stops
//	GET /api/stops.json
//	GET /api/calendar-dates.json
package server

/*
Package gtfs loads and indexes the truck GTFS tables used as route and trip
metadata by the simulator.

The tables are the truck variants of the GTFS static files:

  - truck_routes.txt (route_id, route_type, route_name, route_color)
  - truck_trips.txt (route_id, trip_id, trip_headsign, service_id, po_number)
  - truck_stops.txt (stop_id, stop_name, stop_lat, stop_lon, location_type)
  - truck_stop_times.txt (trip_id, arrival_time, departure_time, stop_id, stop_sequence)
  - calendar_dates.txt (service_id, date, exception_type)

# Basic Usage

	index, err := gtfs.Load(ctx, "./data/gtfs")           // directory
	index, err := gtfs.Load(ctx, "./data/gtfs.zip")       // local zip
	index, err := gtfs.Load(ctx, "https://host/gtfs.zip") // remote zip

	route, err := index.GetTruckRouteByID(ctx, "10")
	if errors.Is(err, gtfs.ErrRouteNotFound) {
	    // unknown route
	}

# Performance: Cache the Index

Parse the tables once at startup and keep the index in memory. The index can
also be written to disk with SerializeIndexToFile and restored with
DeserializeIndexFromFile to skip CSV parsing on restart.

The index is read-only after loading and safe for concurrent readers.
*/
package gtfs
